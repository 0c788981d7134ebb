package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"paudku_backend/internals/features/school/classes/dto"
	"paudku_backend/internals/features/school/classes/model"
	"paudku_backend/internals/features/school/classes/service"
	helper "paudku_backend/internals/helpers"
)

type ClassController struct {
	DB       *gorm.DB
	Validate *validator.Validate
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{
		DB:       db,
		Validate: validator.New(),
	}
}

/* ===================== LIST & DETAIL ===================== */

// GET /api/classes?grade=&academic_year=&semester=&page=&limit=
func (ctrl *ClassController) GetClasses(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 10, 100)

	q := ctrl.DB.Model(&model.ClassModel{})

	if grade := c.Query("grade"); grade != "" {
		q = q.Where("grade = ?", grade)
	}
	if year := c.Query("academic_year"); year != "" {
		q = q.Where("academic_year = ?", year)
	}
	if semester := c.Query("semester"); semester != "" {
		q = q.Where("semester = ?", semester)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		log.Println("[ERROR] Gagal menghitung kelas:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data kelas")
	}

	var classes []model.ClassModel
	if err := q.Order("name ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&classes).Error; err != nil {
		log.Println("[ERROR] Gagal mengambil kelas:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data kelas")
	}

	return helper.JsonList(c, dto.ToClassResponses(classes), helper.BuildPagination(paging, total))
}

// GET /api/classes/:id — detail termasuk daftar guru dari tabel join.
func (ctrl *ClassController) GetClassByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	var class model.ClassModel
	if err := ctrl.DB.First(&class, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data kelas")
	}

	teachers, err := ctrl.classTeachers(id)
	if err != nil {
		log.Println("[ERROR] Gagal mengambil guru kelas:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data kelas")
	}

	resp := dto.ToClassResponse(&class, teachers)
	return helper.JsonOK(c, "Kelas ditemukan", resp)
}

/* ===================== CREATE / UPDATE / DELETE ===================== */

// POST /api/classes (admin)
func (ctrl *ClassController) CreateClass(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	req.Normalize()
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var count int64
	ctrl.DB.Model(&model.ClassModel{}).
		Where("name = ? AND academic_year = ? AND semester = ?",
			req.Name, req.AcademicYear, req.Semester).
		Count(&count)
	if count > 0 {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Nama kelas sudah dipakai pada tahun ajaran dan semester yang sama")
	}

	class := req.ToModel()
	if err := ctrl.DB.Create(class).Error; err != nil {
		log.Println("[ERROR] Gagal membuat kelas:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal membuat kelas")
	}

	resp := dto.ToClassResponse(class, nil)
	return helper.JsonCreated(c, "Kelas berhasil dibuat", resp)
}

// PUT /api/classes/:id (admin)
func (ctrl *ClassController) UpdateClass(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var class model.ClassModel
	if err := ctrl.DB.First(&class, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Kelas tidak ditemukan")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil data kelas")
	}

	// Kapasitas baru tidak boleh di bawah jumlah siswa aktif saat ini
	if req.Capacity != nil && *req.Capacity < class.CurrentEnrollment {
		return helper.JsonError(c, fiber.StatusBadRequest,
			"Kapasitas baru lebih kecil dari jumlah siswa terdaftar")
	}

	if req.Name != nil {
		var count int64
		ctrl.DB.Model(&model.ClassModel{}).
			Where("name = ? AND academic_year = ? AND semester = ? AND id <> ?",
				*req.Name, class.AcademicYear, class.Semester, class.ID).
			Count(&count)
		if count > 0 {
			return helper.JsonError(c, fiber.StatusBadRequest,
				"Nama kelas sudah dipakai pada tahun ajaran dan semester yang sama")
		}
	}

	req.ApplyToModel(&class)
	if err := ctrl.DB.Save(&class).Error; err != nil {
		log.Println("[ERROR] Gagal memperbarui kelas:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal memperbarui kelas")
	}

	resp := dto.ToClassResponse(&class, nil)
	return helper.JsonUpdated(c, "Kelas berhasil diperbarui", resp)
}

// DELETE /api/classes/:id (admin) — hanya kelas kosong.
func (ctrl *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	if err := service.DeleteClass(ctrl.DB, id); err != nil {
		return ctrl.mapServiceError(c, err, "Gagal menghapus kelas")
	}

	return helper.JsonDeleted(c, "Kelas berhasil dihapus", fiber.Map{"id": id})
}

/* ===================== KEANGGOTAAN ===================== */

// POST /api/classes/:classId/students (teacher+)
func (ctrl *ClassController) AddStudent(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	var req dto.MembershipRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	studentID := uuid.MustParse(req.StudentID)
	if err := service.AddStudentToClass(ctrl.DB, classID, studentID); err != nil {
		return ctrl.mapServiceError(c, err, "Gagal mendaftarkan siswa ke kelas")
	}

	return helper.JsonCreated(c, "Siswa berhasil didaftarkan ke kelas", fiber.Map{
		"class_id":   classID,
		"student_id": studentID,
	})
}

// DELETE /api/classes/:classId/students/:studentId (teacher+)
func (ctrl *ClassController) RemoveStudent(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID siswa tidak valid")
	}

	if err := service.RemoveStudentFromClass(ctrl.DB, classID, studentID); err != nil {
		return ctrl.mapServiceError(c, err, "Gagal mengeluarkan siswa dari kelas")
	}

	return helper.JsonDeleted(c, "Siswa berhasil dikeluarkan dari kelas", fiber.Map{
		"class_id":   classID,
		"student_id": studentID,
	})
}

// POST /api/classes/:classId/teachers (admin)
func (ctrl *ClassController) AssignTeacher(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}

	var req dto.AssignTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Payload tidak valid")
	}
	if err := ctrl.Validate.Struct(req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	teacherID := uuid.MustParse(req.TeacherID)
	if err := service.AssignTeacherToClass(ctrl.DB, classID, teacherID); err != nil {
		return ctrl.mapServiceError(c, err, "Gagal menugaskan guru ke kelas")
	}

	return helper.JsonCreated(c, "Guru berhasil ditugaskan ke kelas", fiber.Map{
		"class_id":   classID,
		"teacher_id": teacherID,
	})
}

// DELETE /api/classes/:classId/teachers/:teacherId (admin)
func (ctrl *ClassController) UnassignTeacher(c *fiber.Ctx) error {
	classID, err := uuid.Parse(c.Params("classId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID kelas tidak valid")
	}
	teacherID, err := uuid.Parse(c.Params("teacherId"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "ID guru tidak valid")
	}

	if err := service.UnassignTeacherFromClass(ctrl.DB, classID, teacherID); err != nil {
		return ctrl.mapServiceError(c, err, "Gagal mencabut penugasan guru")
	}

	return helper.JsonDeleted(c, "Penugasan guru berhasil dicabut", fiber.Map{
		"class_id":   classID,
		"teacher_id": teacherID,
	})
}

/* ===================== STATS & RECONCILE ===================== */

// GET /api/classes/stats
func (ctrl *ClassController) GetClassStats(c *fiber.Ctx) error {
	type kv struct {
		Key   string `json:"key"`
		Count int64  `json:"count"`
	}

	var byGrade []kv
	if err := ctrl.DB.Model(&model.ClassModel{}).
		Select("grade AS key, COUNT(*) AS count").
		Group("grade").Scan(&byGrade).Error; err != nil {
		log.Println("[ERROR] Gagal statistik kelas:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik kelas")
	}

	var byYear []kv
	if err := ctrl.DB.Model(&model.ClassModel{}).
		Select("academic_year AS key, COUNT(*) AS count").
		Group("academic_year").Scan(&byYear).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik kelas")
	}

	var classes []model.ClassModel
	if err := ctrl.DB.Select("capacity, current_enrollment").Find(&classes).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal mengambil statistik kelas")
	}

	occupancy := map[string]int{
		service.OccupancyLow:    0,
		service.OccupancyMedium: 0,
		service.OccupancyHigh:   0,
		service.OccupancyFull:   0,
	}
	for _, class := range classes {
		occupancy[service.OccupancyBucket(class.Capacity, class.CurrentEnrollment)]++
	}

	return helper.JsonOK(c, "Statistik kelas", fiber.Map{
		"total":     len(classes),
		"by_grade":  byGrade,
		"by_year":   byYear,
		"occupancy": occupancy,
	})
}

// POST /api/admin/reconcile (admin) — samakan current_enrollment
// seluruh kelas dengan keanggotaan sesungguhnya.
func (ctrl *ClassController) ReconcileEnrollments(c *fiber.Ctx) error {
	fixed, err := service.ReconcileAllEnrollments(ctrl.DB)
	if err != nil {
		log.Println("[ERROR] Gagal rekonsiliasi enrollment:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Gagal rekonsiliasi enrollment")
	}

	log.Printf("[INFO] Rekonsiliasi enrollment selesai, %d kelas dikoreksi", fixed)
	return helper.JsonOK(c, "Rekonsiliasi selesai", fiber.Map{
		"classes_corrected": fixed,
	})
}

/* ===================== INTERNAL ===================== */

func (ctrl *ClassController) classTeachers(classID uuid.UUID) ([]dto.ClassTeacherView, error) {
	var teachers []dto.ClassTeacherView
	err := ctrl.DB.Table("class_teachers ct").
		Select("ct.teacher_id, t.full_name, t.position, ct.assigned_at").
		Joins("JOIN teachers t ON t.id = ct.teacher_id").
		Where("ct.class_id = ? AND t.deleted_at IS NULL", classID).
		Scan(&teachers).Error
	return teachers, err
}

func (ctrl *ClassController) mapServiceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrClassNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrTeacherNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrAlreadyEnrolled),
		errors.Is(err, service.ErrNotEnrolled),
		errors.Is(err, service.ErrAlreadyAssigned),
		errors.Is(err, service.ErrNotAssigned),
		errors.Is(err, service.ErrClassNotEmpty),
		errors.Is(err, service.ErrTeacherHasClasses):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Println("[ERROR]", fallback+":", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}
