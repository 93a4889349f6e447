package handlers

import (
	"net/http"
	"strconv"

	"kinder_admin/internal/response"

	"github.com/gin-gonic/gin"
)

// Прокси явных операций над уже сохраненными сущностями платформы.
// Удаления выполняются только здесь, по прямому действию пользователя, —
// оркестратор отправки удалений не выводит никогда.

func parseServerID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Неверный серверный идентификатор",
		})
		return 0, false
	}
	return id, true
}

// ActivityDeletionImpactHandler запрашивает у платформы последствия удаления активности
// @Summary		Последствия удаления активности
// @Description	Информационная справка для предупреждения пользователя (последняя ли активность в расписании и т.п.); на поведение черновика не влияет
// @Tags			platform
// @Produce		json
// @Param			id	path		int	true	"Серверный ID активности"
// @Security		BearerAuth
// @Success		200	{object}	platform.DeletionImpact
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		502	{object}	response.ErrorResponse	"Платформа недоступна (UPSTREAM_ERROR)"
// @Router			/api/activities/{id}/deletion-impact [get]
func ActivityDeletionImpactHandler(c *gin.Context) {
	id, ok := parseServerID(c)
	if !ok {
		return
	}

	impact, err := Platform.ActivityDeletionImpact(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, impact)
}

// DeletePersistedActivityHandler удаляет сохраненную активность на платформе
// @Summary		Удаление активности на платформе
// @Tags			platform
// @Produce		json
// @Param			id	path		int	true	"Серверный ID активности"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		502	{object}	response.ErrorResponse	"Платформа недоступна (UPSTREAM_ERROR)"
// @Router			/api/activities/{id} [delete]
func DeletePersistedActivityHandler(c *gin.Context) {
	id, ok := parseServerID(c)
	if !ok {
		return
	}

	if err := Platform.DeleteActivity(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Активность удалена"})
}

// DeletePersistedScheduleHandler удаляет сохраненное расписание на платформе
// @Summary		Удаление расписания на платформе
// @Tags			platform
// @Produce		json
// @Param			id	path		int	true	"Серверный ID расписания"
// @Security		BearerAuth
// @Success		200	{object}	response.SuccessResponse
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		502	{object}	response.ErrorResponse	"Платформа недоступна (UPSTREAM_ERROR)"
// @Router			/api/schedules/{id} [delete]
func DeletePersistedScheduleHandler(c *gin.Context) {
	id, ok := parseServerID(c)
	if !ok {
		return
	}

	if err := Platform.DeleteSchedule(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessResponse{Message: "Расписание удалено"})
}
