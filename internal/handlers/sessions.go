package handlers

import (
	"net/http"

	"kinder_admin/internal/draft"
	"kinder_admin/internal/models"
	"kinder_admin/internal/response"

	"github.com/gin-gonic/gin"
)

type CreateSessionRequest struct {
	// Режим сессии: draft — создание нового класса, edit — правка существующего
	Mode string `json:"mode" binding:"required,oneof=draft edit"`
	// Идентификатор класса (обязателен в режиме edit)
	ClassID int64 `json:"class_id"`
}

// CreateSessionHandler открывает сессию мастера создания/правки класса
// @Summary		Открытие сессии редактирования
// @Description	В режиме draft создается пустой черновик; в режиме edit хранилище заполняется расписаниями и активностями класса с платформы
// @Tags			sessions
// @Accept			json
// @Produce		json
// @Param			session	body		CreateSessionRequest	true	"Параметры сессии"
// @Security		BearerAuth
// @Success		201	{object}	response.SessionResponse	"Сессия открыта"
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		502	{object}	response.ErrorResponse	"Платформа недоступна (UPSTREAM_ERROR)"
// @Router			/api/sessions [post]
func CreateSessionHandler(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	var store *draft.Store
	if req.Mode == "edit" {
		if req.ClassID < 1 {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "В режиме edit требуется идентификатор класса",
			})
			return
		}
		store = draft.NewEditStore(req.ClassID)

		// Заполняем хранилище серверными копиями: после этого оно — кэш,
		// канонические данные остаются на платформе.
		schedules, err := Platform.ClassSchedules(c.Request.Context(), req.ClassID)
		if err != nil {
			respondError(c, err)
			return
		}
		for _, sched := range schedules {
			activities, err := Platform.ScheduleActivities(c.Request.Context(), sched.ID.Value)
			if err != nil {
				respondError(c, err)
				return
			}
			if err := store.Seed([]models.Schedule{sched}, activities); err != nil {
				respondError(c, err)
				return
			}
		}
	} else {
		store = draft.NewStore()
	}

	sess := Sessions.Create(c.GetUint("userID"), store)
	c.JSON(http.StatusCreated, sessionSummary(sess))
}

// GetSessionHandler возвращает сводку сессии
// @Summary		Сводка сессии
// @Tags			sessions
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Security		BearerAuth
// @Success		200	{object}	response.SessionResponse
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Router			/api/sessions/{id} [get]
func GetSessionHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionSummary(sess))
}

// DeleteSessionHandler закрывает сессию без сохранения
// @Summary		Отказ от черновика
// @Description	Черновик удаляется безвозвратно; на платформе ничего не меняется
// @Tags			sessions
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Router			/api/sessions/{id} [delete]
func DeleteSessionHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	Sessions.Remove(sess.ID)
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Сессия закрыта, черновик удален"})
}

func sessionSummary(sess *draft.Session) response.SessionResponse {
	mode := "edit"
	if sess.Store.DraftMode() {
		mode = "draft"
	}
	return response.SessionResponse{
		SessionID:   sess.ID.String(),
		Mode:        mode,
		ClassID:     sess.Store.ClassID().Value,
		CurrentWeek: sess.Nav.Current(),
		Schedules:   len(sess.Store.Schedules()),
		Activities:  len(sess.Store.Activities()),
	}
}
