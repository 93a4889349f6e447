package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"kinder_admin/internal/draft"
	"kinder_admin/internal/errs"
	"kinder_admin/internal/flush"
	"kinder_admin/internal/models"
	"kinder_admin/internal/platform"
	"kinder_admin/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	Sessions *draft.Manager
	Platform platform.API
	Flusher  *flush.Orchestrator
)

// Init связывает хендлеры с менеджером сессий, клиентом платформы и оркестратором.
func Init(sessions *draft.Manager, api platform.API, flusher *flush.Orchestrator) {
	Sessions = sessions
	Platform = api
	Flusher = flusher
}

// sessionFromContext достает сессию по :id, проверяя владельца.
func sessionFromContext(c *gin.Context) (*draft.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{
			Code:    "INVALID_SESSION_ID",
			Message: "Неверный идентификатор сессии",
		})
		return nil, false
	}
	sess, ok := Sessions.Get(id, c.GetUint("userID"))
	if !ok {
		c.JSON(http.StatusNotFound, response.ErrorResponse{
			Code:    "SESSION_NOT_FOUND",
			Message: "Сессия не найдена или принадлежит другому пользователю",
		})
		return nil, false
	}
	return sess, true
}

// parseEntityID разбирает идентификатор из URL: "42" — серверный, "draft-3" — черновой.
func parseEntityID(raw string) (models.ID, error) {
	if rest, ok := strings.CutPrefix(raw, "draft-"); ok {
		v, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return models.ID{}, errs.Newf(errs.Validation, "неверный идентификатор: %q", raw)
		}
		return models.NewDraftID(v), nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return models.ID{}, errs.Newf(errs.Validation, "неверный идентификатор: %q", raw)
	}
	return models.RealID(v), nil
}

// respondError переводит категоризированную ошибку в HTTP-ответ с кодом.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"

	var domainErr *errs.Error
	if errors.As(err, &domainErr) {
		code = string(domainErr.Kind)
		switch domainErr.Kind {
		case errs.Validation, errs.Precondition:
			status = http.StatusBadRequest
		case errs.DuplicateWeek:
			status = http.StatusConflict
		case errs.NotFound:
			status = http.StatusNotFound
		case errs.Backend:
			status = http.StatusBadGateway
		}
	}

	resp := response.ErrorResponse{Code: code, Message: errs.MessageOf(err)}
	if domainErr != nil && domainErr.Err != nil {
		resp.Details = domainErr.Err.Error()
	}
	c.JSON(status, resp)
}
