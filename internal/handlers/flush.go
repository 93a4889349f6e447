package handlers

import (
	"net/http"

	"kinder_admin/internal/flush"
	"kinder_admin/internal/platform"
	"kinder_admin/internal/response"

	"github.com/gin-gonic/gin"
)

type FlushRequest struct {
	// Название класса
	Name string `json:"name" binding:"required"`
	// Описание класса
	Description string `json:"description"`
	// Идентификатор воспитателя
	TeacherID *int64 `json:"teacher_id"`
	// Вместимость группы
	Capacity int `json:"capacity"`
}

// FlushReportResponse — итог отправки черновика.
type FlushReportResponse struct {
	// Итог: ok — всё создано, partial — часть недель/активностей не создана
	Outcome string       `json:"outcome"`
	Report  flush.Report `json:"report"`
}

// FlushSessionHandler отправляет черновик на платформу
// @Summary		Создание класса из черновика
// @Description	Создает класс, затем расписания в порядке добавления, затем активности успешно созданных расписаний. Неудача отдельной недели не фатальна: её активности пропускаются, остальное создается. Частичный успех сообщается как partial; уже созданное не откатывается
// @Tags			flush
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			class	body		FlushRequest	true	"Данные класса"
// @Security		BearerAuth
// @Success		200	{object}	FlushReportResponse	"Черновик отправлен (возможно частично)"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации или предусловий (VALIDATION_ERROR, PRECONDITION_FAILED)"
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Failure		502	{object}	response.ErrorResponse	"Не удалось создать класс (UPSTREAM_ERROR)"
// @Router			/api/sessions/{id}/flush [post]
func FlushSessionHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}

	if !sess.Store.DraftMode() {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Сессия открыта в режиме правки: класс уже существует",
		})
		return
	}

	var req FlushRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	report, err := Flusher.FlushDraft(c.Request.Context(), sess.ID.String(), sess.Store, platform.ClassPayload{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   req.TeacherID,
		Capacity:    req.Capacity,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// Класс создан (возможно, частично) — черновик своё отработал.
	// Консоль переходит на страницу класса даже при частичном успехе.
	Sessions.Remove(sess.ID)

	c.JSON(http.StatusOK, FlushReportResponse{Outcome: report.Outcome(), Report: *report})
}

type SaveScheduleRequest struct {
	// Номер недели
	WeekNumber int `json:"week_number" binding:"required,min=1"`
	// Примечание
	Note string `json:"note"`
}

// SaveScheduleHandler сохраняет одно расписание сессии правки на платформе
// @Summary		Сохранение расписания
// @Description	Расписание с серверным ID обновляется, с черновым — создается для класса сессии (так сохраняется заведенная в правке новая неделя). По каждой активности выполняется update (серверный ID) или create (черновой ID); серверные ID созданного подменяют черновые в сессии. Активность, отсутствующая в черновике, НЕ удаляется на платформе: удаления только явные
// @Tags			flush
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			sid	path		string	true	"ID расписания (число или draft-N)"
// @Param			schedule	body		SaveScheduleRequest	true	"Поля расписания"
// @Security		BearerAuth
// @Success		200	{object}	flush.EditReport
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404	{object}	response.ErrorResponse	"Не найдено (SESSION_NOT_FOUND, NOT_FOUND)"
// @Failure		409	{object}	response.ErrorResponse	"Неделя уже занята (DUPLICATE_WEEK)"
// @Failure		502	{object}	response.ErrorResponse	"Платформа недоступна (UPSTREAM_ERROR)"
// @Router			/api/sessions/{id}/schedules/{sid}/save [put]
func SaveScheduleHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}

	if sess.Store.DraftMode() {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Черновая сессия отправляется целиком, а не по одному расписанию",
		})
		return
	}

	scheduleID, err := parseEntityID(c.Param("sid"))
	if err != nil {
		respondError(c, err)
		return
	}
	if _, found := sess.Store.ScheduleByID(scheduleID); !found {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "NOT_FOUND",
			Message: "Расписание не найдено в сессии",
		})
		return
	}

	var req SaveScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	report, err := Flusher.SaveScheduleEdit(
		c.Request.Context(),
		sess.ID.String(),
		sess.Store,
		scheduleID,
		platform.SchedulePatch{WeekNumber: req.WeekNumber, Note: req.Note},
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
