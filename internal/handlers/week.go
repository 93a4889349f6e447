package handlers

import (
	"net/http"

	"kinder_admin/internal/response"

	"github.com/gin-gonic/gin"
)

// WeekResponse — текущая неделя навигатора.
type WeekResponse struct {
	CurrentWeek int `json:"current_week"`
}

// NextWeekHandler переключает навигатор на следующую неделю
// @Summary		Следующая неделя
// @Description	Сам навигатор верхней границы не имеет; здесь переход ограничен max(существующих недель)+1 — это позволяет завести расписание следующей, ещё пустой недели
// @Tags			weeks
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Security		BearerAuth
// @Success		200	{object}	WeekResponse
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Router			/api/sessions/{id}/week/next [post]
func NextWeekHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}

	limit := sess.Store.MaxWeek() + 1
	if sess.Nav.Current() < limit {
		sess.Nav.Next()
	}
	c.JSON(http.StatusOK, WeekResponse{CurrentWeek: sess.Nav.Current()})
}

// PrevWeekHandler переключает навигатор на предыдущую неделю
// @Summary		Предыдущая неделя
// @Description	Ниже первой недели навигатор не уходит
// @Tags			weeks
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Security		BearerAuth
// @Success		200	{object}	WeekResponse
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Router			/api/sessions/{id}/week/prev [post]
func PrevWeekHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}
	sess.Nav.Previous()
	c.JSON(http.StatusOK, WeekResponse{CurrentWeek: sess.Nav.Current()})
}

type SetWeekRequest struct {
	// Номер недели (любое положительное число, в том числе без расписания)
	Week int `json:"week" binding:"required"`
}

// SetWeekHandler переходит на произвольную неделю
// @Summary		Переход на неделю
// @Description	Принимается любая положительная неделя, включая недели без расписания — так создается расписание новой недели
// @Tags			weeks
// @Accept			json
// @Produce		json
// @Param			id	path		string	true	"ID сессии"
// @Param			week	body		SetWeekRequest	true	"Номер недели"
// @Security		BearerAuth
// @Success		200	{object}	WeekResponse
// @Failure		400	{object}	response.ErrorResponse	"Ошибка валидации (VALIDATION_ERROR)"
// @Failure		404	{object}	response.ErrorResponse	"Сессия не найдена (SESSION_NOT_FOUND)"
// @Router			/api/sessions/{id}/week [put]
func SetWeekHandler(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		return
	}

	var req SetWeekRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: "Ошибка валидации данных",
			Details: err.Error(),
		})
		return
	}

	if err := sess.Nav.SetWeek(req.Week); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, WeekResponse{CurrentWeek: sess.Nav.Current()})
}
