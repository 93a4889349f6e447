package handlers

import (
	"net/http"

	"kinder_admin/internal/grid"
	"kinder_admin/internal/models"

	"github.com/gin-gonic/gin"
)

// GridResponse — недельная сетка для отрисовки: расписание текущей недели
// (если есть) и активности, разложенные по дням и слотам.
type GridResponse struct {
	Week     int              `json:"week"`
	Schedule *models.Schedule `json:"schedule"`
	Grid     grid.Grid        `json:"grid"`
}

// GetGridHandler возвращает сетку текущей недели навигатора
// @Summary		Недельная сетка
// @Description	Активности раскладываются по дням MONDAY–FRIDAY и настроенным слотам. Активности выходных и активности вне слотов в сетку не попадают (но остаются в черновике); их число отдается в поле omitted
// @Tags			grid
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Security		BearerAuth
// @Success		200	{object}	GridResponse
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Router			/api/sessions/{id}/grid [get]
func GetGridHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}

	resp := GridResponse{Week: sess.Nav.Current()}

	sched, found := sess.Nav.ScheduleForCurrentWeek(sess.Store.Schedules())
	if found {
		resp.Schedule = &sched
		resp.Grid = grid.Group(sess.Store.ListBySchedule(sched.ID), models.Weekdays(), grid.DefaultSlots())
	} else {
		// Недели без расписания — пустая сетка: так пользователь заводит новую неделю.
		resp.Grid = grid.Group(nil, models.Weekdays(), grid.DefaultSlots())
	}

	c.JSON(http.StatusOK, resp)
}
