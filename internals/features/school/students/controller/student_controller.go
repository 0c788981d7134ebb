package controller

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"paudku_backend/internals/constants"
	classservice "paudku_backend/internals/features/school/classes/service"
	"paudku_backend/internals/features/school/students/dto"
	"paudku_backend/internals/features/school/students/model"
	helper "paudku_backend/internals/helpers"
	authscope "paudku_backend/internals/helpers/auth"
)

type StudentController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* ===================== LIST & DETAIL ===================== */

// GET /api/students?class_id=&grade=&status=&search=&page=&limit= (teacher+)
func (ctrl *StudentController) GetStudents(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 10, 100)

	q := ctrl.DB.Model(&model.StudentModel{})

	if classID := c.Query("class_id"); classID != "" {
		id, err := uuid.Parse(classID)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "class_id tidak valid")
		}
		q = q.Where("class_id = ?", id)
	}
	if grade := c.Query("grade"); grade != "" {
		q = q.Where("grade = ?", grade)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("full_name ILIKE ? OR student_id ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] Gagal menghitung siswa:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data siswa")
	}

	var students []model.StudentModel
	if err := q.Order("full_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&students).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil siswa:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data siswa")
	}

	return helper.JsonList(c, dto.ToStudentResponses(students), helper.BuildPagination(paging, total))
}

// GET /api/students/my-children (parent)
func (ctrl *StudentController) GetMyChildren(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}
	role, _ := helper.GetUserRoleFromToken(c)

	var students []model.StudentModel
	q := authscope.ScopeStudents(ctrl.DB.Model(&model.StudentModel{}), role, userID)
	if err := q.Order("full_name ASC").Find(&students).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil data anak:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data anak")
	}

	return helper.JsonOK(c, "Data anak", dto.ToStudentResponses(students))
}

// GET /api/students/:id (teacher+)
func (ctrl *StudentController) GetStudentByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID siswa tidak valid")
	}

	var student model.StudentModel
	if err := ctrl.DB.First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data siswa")
	}

	resp := dto.ToStudentResponse(&student)
	return helper.JsonOK(c, "Siswa ditemukan", resp)
}

/* ===================== CREATE / UPDATE / DELETE ===================== */

// POST /api/students (admin)
func (ctrl *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if err := ctrl.validateParentLinks(req.Parents); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	var count int64
	ctrl.DB.Model(&model.StudentModel{}).
		Where("student_id = ?", req.StudentID).
		Count(&count)
	if count > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nomor induk siswa sudah digunakan")
	}

	student, err := req.ToModel()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Data parent tidak valid")
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if student.ClassID != nil {
			if err := classservice.EnsureClassHasSpace(tx, *student.ClassID); err != nil {
				return err
			}
		}
		if err := tx.Create(student).Error; err != nil {
			return err
		}
		if student.ClassID != nil {
			return classservice.RecountEnrollment(tx, *student.ClassID)
		}
		return nil
	})
	if err != nil {
		return ctrl.mapEnrollmentError(c, err, "Gagal membuat siswa")
	}

	resp := dto.ToStudentResponse(student)
	return helper.JsonCreated(c, "Siswa berhasil dibuat", resp)
}

// PUT /api/students/:id (admin)
func (ctrl *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID siswa tidak valid")
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	if req.Parents != nil {
		if err := ctrl.validateParentLinks(req.Parents); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
	}

	var student model.StudentModel
	if err := ctrl.DB.First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data siswa")
	}

	oldClassID := student.ClassID

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := req.ApplyToModel(&student); err != nil {
			return err
		}

		// Pindah kelas: cek kapasitas kelas tujuan dulu
		if req.ClassID != nil {
			if oldClassID == nil || *req.ClassID != *oldClassID {
				if err := classservice.EnsureClassHasSpace(tx, *req.ClassID); err != nil {
					return err
				}
			}
			student.ClassID = req.ClassID
		}

		if err := tx.Save(&student).Error; err != nil {
			return err
		}

		// Hitung ulang kelas lama dan baru (status juga memengaruhi hitungan)
		if oldClassID != nil {
			if err := classservice.RecountEnrollment(tx, *oldClassID); err != nil {
				return err
			}
		}
		if student.ClassID != nil && (oldClassID == nil || *student.ClassID != *oldClassID) {
			if err := classservice.RecountEnrollment(tx, *student.ClassID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return ctrl.mapEnrollmentError(c, err, "Gagal memperbarui siswa")
	}

	resp := dto.ToStudentResponse(&student)
	return helper.JsonUpdated(c, "Siswa berhasil diperbarui", resp)
}

// DELETE /api/students/:id (admin)
func (ctrl *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID siswa tidak valid")
	}

	var student model.StudentModel
	if err := ctrl.DB.First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data siswa")
	}

	err = ctrl.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&student).Error; err != nil {
			return err
		}
		if student.ClassID != nil {
			return classservice.RecountEnrollment(tx, *student.ClassID)
		}
		return nil
	})
	if err != nil {
		log.Println("[ERROR] Gagal menghapus siswa:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus siswa")
	}

	return helper.JsonDeleted(c, "Siswa berhasil dihapus", fiber.Map{"id": id})
}

/* ===================== NOTES ===================== */

// POST /api/students/:id/notes (teacher+)
func (ctrl *StudentController) AddStudentNote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID siswa tidak valid")
	}

	authorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	}

	var req dto.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var student model.StudentModel
	if err := ctrl.DB.First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Siswa tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data siswa")
	}

	var notes []dto.StudentNote
	_ = json.Unmarshal(student.Notes, &notes)
	notes = append(notes, dto.StudentNote{
		Date:     time.Now(),
		Content:  req.Content,
		AuthorID: authorID.String(),
		Type:     req.Type,
	})

	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan catatan")
	}

	if err := ctrl.DB.Model(&student).
		Update("notes", datatypes.JSON(notesJSON)).Error; err != nil {
		log.Println("[ERROR] Gagal menyimpan catatan siswa:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menyimpan catatan")
	}

	return helper.JsonCreated(c, "Catatan berhasil ditambahkan", notes[len(notes)-1])
}

/* ===================== STATS ===================== */

// GET /api/students/stats (teacher+)
func (ctrl *StudentController) GetStudentStats(c *fiber.Ctx) error {
	type kv struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var byGrade []kv
	if err := ctrl.DB.Model(&model.StudentModel{}).
		Select("grade AS key, COUNT(*) AS count").
		Where("status = ?", model.StudentActive).
		Group("grade").Scan(&byGrade).Error; err != nil {
		log.Println("[ERROR] Gagal statistik per grade:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik siswa")
	}

	var byGender []kv
	if err := ctrl.DB.Model(&model.StudentModel{}).
		Select("gender AS key, COUNT(*) AS count").
		Where("status = ?", model.StudentActive).
		Group("gender").Scan(&byGender).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik siswa")
	}

	var byStatus []kv
	if err := ctrl.DB.Model(&model.StudentModel{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").Scan(&byStatus).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik siswa")
	}

	var byAge []kv
	if err := ctrl.DB.Raw(`
		SELECT EXTRACT(YEAR FROM AGE(NOW(), date_of_birth))::text AS key, COUNT(*) AS count
		FROM students
		WHERE status = 'active' AND deleted_at IS NULL
		GROUP BY key
		ORDER BY key
	`).Scan(&byAge).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik siswa")
	}

	var total int64
	ctrl.DB.Model(&model.StudentModel{}).Count(&total)

	return helper.JsonOK(c, "Statistik siswa", fiber.Map{
		"total":     total,
		"by_grade":  byGrade,
		"by_gender": byGender,
		"by_status": byStatus,
		"by_age":    byAge,
	})
}

/* ===================== INTERNAL ===================== */

// validateParentLinks memastikan setiap user_id merujuk ke user role parent.
func (ctrl *StudentController) validateParentLinks(parents []dto.ParentLink) error {
	ids := make([]string, 0, len(parents))
	seen := make(map[string]bool, len(parents))
	for _, p := range parents {
		if seen[p.UserID] {
			return errors.New("Daftar parent mengandung user yang sama dua kali")
		}
		seen[p.UserID] = true
		ids = append(ids, p.UserID)
	}

	var count int64
	if err := ctrl.DB.Table("users").
		Where("id IN ? AND role = ? AND deleted_at IS NULL", ids, constants.RoleParent).
		Count(&count).Error; err != nil {
		return errors.New("Gagal memeriksa data parent")
	}
	if count != int64(len(ids)) {
		return errors.New("Setiap parent harus merujuk user dengan role parent")
	}
	return nil
}

func (ctrl *StudentController) mapEnrollmentError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, classservice.ErrClassNotFound):
		return helper.JsonError(c, fiber.StatusBadRequest, "Kelas tujuan tidak ditemukan")
	case errors.Is(err, classservice.ErrCapacityExceeded):
		return helper.JsonError(c, fiber.StatusBadRequest, "Kapasitas kelas sudah penuh")
	default:
		log.Println("[ERROR]", fallback+":", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}
