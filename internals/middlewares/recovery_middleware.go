package middlewares

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware mengubah panic menjadi response 500 sehingga
// satu handler yang bermasalah tidak mematikan seluruh server.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("❌ [PANIC] %s %s: %v", c.Method(), c.OriginalURL(), e)
		},
	})
}
