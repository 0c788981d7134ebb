package controller

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	classservice "paudku_backend/internals/features/school/classes/service"
	"paudku_backend/internals/features/school/teachers/dto"
	"paudku_backend/internals/features/school/teachers/model"
	helper "paudku_backend/internals/helpers"
)

type TeacherController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewTeacherController(db *gorm.DB) *TeacherController {
	return &TeacherController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* ===================== LIST & DETAIL ===================== */

// GET /api/teachers?position=&department=&status=&search=&page=&limit=
func (ctrl *TeacherController) GetTeachers(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 10, 100)

	q := ctrl.DB.Model(&model.TeacherModel{})

	if position := c.Query("position"); position != "" {
		q = q.Where("position = ?", position)
	}
	if department := c.Query("department"); department != "" {
		q = q.Where("department = ?", department)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		q = q.Where("full_name ILIKE ? OR employee_id ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] Gagal menghitung guru:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data guru")
	}

	var teachers []model.TeacherModel
	if err := q.Order("full_name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&teachers).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil guru:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data guru")
	}

	return helper.JsonList(c, dto.ToTeacherResponses(teachers), helper.BuildPagination(paging, total))
}

// GET /api/teachers/:id — detail termasuk kelas yang diampu.
func (ctrl *TeacherController) GetTeacherByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID guru tidak valid")
	}

	var teacher model.TeacherModel
	if err := ctrl.DB.First(&teacher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Guru tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data guru")
	}

	classes, err := ctrl.assignedClasses(id)
	if err != nil {
		log.Println("[ERROR] Gagal mengambil kelas guru:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data guru")
	}

	resp := dto.ToTeacherResponse(&teacher, classes)
	return helper.JsonOK(c, "Guru ditemukan", resp)
}

/* ===================== CREATE / UPDATE / DELETE ===================== */

// POST /api/teachers (admin)
func (ctrl *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var count int64
	ctrl.DB.Model(&model.TeacherModel{}).
		Where("employee_id = ?", req.EmployeeID).
		Count(&count)
	if count > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nomor pegawai sudah digunakan")
	}

	teacher := req.ToModel()
	if err := ctrl.DB.Create(teacher).Error; err != nil {
		log.Println("[ERROR] Gagal membuat guru:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat guru")
	}

	resp := dto.ToTeacherResponse(teacher, nil)
	return helper.JsonCreated(c, "Guru berhasil dibuat", resp)
}

// PUT /api/teachers/:id (admin)
func (ctrl *TeacherController) UpdateTeacher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID guru tidak valid")
	}

	var req dto.UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var teacher model.TeacherModel
	if err := ctrl.DB.First(&teacher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Guru tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data guru")
	}

	req.ApplyToModel(&teacher)
	if err := ctrl.DB.Save(&teacher).Error; err != nil {
		log.Println("[ERROR] Gagal memperbarui guru:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui guru")
	}

	resp := dto.ToTeacherResponse(&teacher, nil)
	return helper.JsonUpdated(c, "Guru berhasil diperbarui", resp)
}

// DELETE /api/teachers/:id (admin) — ditolak selama masih mengampu kelas.
func (ctrl *TeacherController) DeleteTeacher(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID guru tidak valid")
	}

	var teacher model.TeacherModel
	if err := ctrl.DB.First(&teacher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Guru tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data guru")
	}

	if err := classservice.GuardTeacherDeletable(ctrl.DB, id); err != nil {
		if errors.Is(err, classservice.ErrTeacherHasClasses) {
			return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus guru")
	}

	if err := ctrl.DB.Delete(&teacher).Error; err != nil {
		log.Println("[ERROR] Gagal menghapus guru:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal menghapus guru")
	}

	return helper.JsonDeleted(c, "Guru berhasil dihapus", fiber.Map{"id": id})
}

/* ===================== PENUGASAN KELAS ===================== */

// POST /api/teachers/:teacherId/assign-class (admin)
func (ctrl *TeacherController) AssignClass(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID guru tidak valid")
	}

	var req dto.AssignClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	classID := uuid.MustParse(req.ClassID)
	if err := classservice.AssignTeacherToClass(ctrl.DB, classID, teacherID); err != nil {
		return ctrl.mapServiceError(c, err, "Gagal menugaskan guru ke kelas")
	}

	return helper.JsonCreated(c, "Guru berhasil ditugaskan ke kelas", fiber.Map{
		"teacher_id": teacherID,
		"class_id":   classID,
	})
}

// DELETE /api/teachers/:teacherId/classes/:classId (admin)
func (ctrl *TeacherController) UnassignClass(c *fiber.Ctx) error {
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID guru tidak valid")
	}
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	if err := classservice.UnassignTeacherFromClass(ctrl.DB, classID, teacherID); err != nil {
		return ctrl.mapServiceError(c, err, "Gagal mencabut penugasan guru")
	}

	return helper.JsonDeleted(c, "Penugasan guru berhasil dicabut", fiber.Map{
		"teacher_id": teacherID,
		"class_id":   classID,
	})
}

/* ===================== STATS ===================== */

// GET /api/teachers/stats
func (ctrl *TeacherController) GetTeacherStats(c *fiber.Ctx) error {
	type kv struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var totalActive int64
	if err := ctrl.DB.Model(&model.TeacherModel{}).
		Where("status = ?", model.TeacherActive).
		Count(&totalActive).Error; err != nil {
		log.Println("[ERROR] Gagal statistik guru:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik guru")
	}

	var byPosition []kv
	if err := ctrl.DB.Model(&model.TeacherModel{}).
		Select("position AS key, COUNT(*) AS count").
		Group("position").Scan(&byPosition).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik guru")
	}

	var byDepartment []kv
	if err := ctrl.DB.Model(&model.TeacherModel{}).
		Select("department AS key, COUNT(*) AS count").
		Where("department <> ''").
		Group("department").Scan(&byDepartment).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik guru")
	}

	var teachers []model.TeacherModel
	if err := ctrl.DB.Select("date_of_birth").
		Where("status = ?", model.TeacherActive).
		Find(&teachers).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik guru")
	}

	now := time.Now()
	ageBuckets := map[string]int{}
	for _, t := range teachers {
		age := now.Year() - t.DateOfBirth.Year()
		if now.Month() < t.DateOfBirth.Month() ||
			(now.Month() == t.DateOfBirth.Month() && now.Day() < t.DateOfBirth.Day()) {
			age--
		}
		ageBuckets[dto.AgeBucket(age)]++
	}

	return helper.JsonOK(c, "Statistik guru", fiber.Map{
		"total_active":  totalActive,
		"by_position":   byPosition,
		"by_department": byDepartment,
		"by_age":        ageBuckets,
	})
}

/* ===================== INTERNAL ===================== */

func (ctrl *TeacherController) assignedClasses(teacherID uuid.UUID) ([]dto.AssignedClassView, error) {
	var classes []dto.AssignedClassView
	err := ctrl.DB.Table("class_teachers ct").
		Select("ct.class_id, c.name, c.grade, c.academic_year, ct.assigned_at").
		Joins("JOIN classes c ON c.id = ct.class_id").
		Where("ct.teacher_id = ? AND c.deleted_at IS NULL", teacherID).
		Scan(&classes).Error
	return classes, err
}

func (ctrl *TeacherController) mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, classservice.ErrClassNotFound),
		errors.Is(err, classservice.ErrTeacherNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, classservice.ErrAlreadyAssigned),
		errors.Is(err, classservice.ErrNotAssigned):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Println("[ERROR]", fallback+":", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}
