package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	mw "groupware-approval/internal/adapter/middleware"
	"groupware-approval/internal/domain/document"
	"groupware-approval/internal/domain/member"
	"groupware-approval/internal/domain/route"
	docuc "groupware-approval/internal/usecase/document"
	"groupware-approval/internal/usecase/notification"
	"groupware-approval/internal/usecase/transition"
)

type DocumentService interface {
	Create(ctx context.Context, in docuc.CreateInput) (*docuc.View, error)
	SubmitDraft(ctx context.Context, in docuc.SubmitInput) (*docuc.View, error)
	Get(ctx context.Context, documentID uint64) (*docuc.View, error)
	GetRouteStatus(ctx context.Context, documentID uint64) ([]docuc.StepView, error)
	ListOwned(ctx context.Context, in docuc.ListInput) (*docuc.Page, error)
	Inbox(ctx context.Context, actorID uint64, page, size int) (*docuc.InboxPage, error)
}

type TransitionService interface {
	Act(ctx context.Context, in transition.ActInput) (*transition.Outcome, error)
	Recall(ctx context.Context, documentID, ownerID uint64) (*transition.Outcome, error)
	Acknowledge(ctx context.Context, documentID, ownerID uint64) (*transition.Outcome, error)
}

type BadgeService interface {
	Badges(ctx context.Context, actorID uint64) (*notification.Badges, error)
}

type Handler struct {
	docs   DocumentService
	moves  TransitionService
	badges BadgeService
}

func NewHandler(docs DocumentService, moves TransitionService, badges BadgeService) *Handler {
	return &Handler{docs: docs, moves: moves, badges: badges}
}

// Register mounts the API. actor guards everything but /health; mutate runs
// on state-changing routes only, after actor.
func (h *Handler) Register(e *echo.Echo, actor echo.MiddlewareFunc, mutate ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	e.GET("/documents", h.ListDocuments, actor)
	e.GET("/documents/:id", h.GetDocument, actor)
	e.GET("/documents/:id/route", h.GetRoute, actor)
	e.GET("/inbox", h.Inbox, actor)
	e.GET("/notifications", h.Notifications, actor)

	m := append([]echo.MiddlewareFunc{actor}, mutate...)
	e.POST("/documents", h.CreateDocument, m...)
	e.POST("/documents/:id/submit", h.SubmitDraft, m...)
	e.POST("/documents/:id/act", h.Act, m...)
	e.POST("/documents/:id/recall", h.Recall, m...)
	e.POST("/documents/:id/acknowledge", h.Acknowledge, m...)
}

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

type createDocumentReq struct {
	Type        string   `json:"type"         validate:"required,doctype"`
	Title       string   `json:"title"        validate:"required,max=200"`
	Content     string   `json:"content"`
	SubType     string   `json:"sub_type"     validate:"max=32"`
	StartDate   string   `json:"start_date"   validate:"omitempty,datetime=2006-01-02"`
	EndDate     string   `json:"end_date"     validate:"omitempty,datetime=2006-01-02"`
	Duration    float64  `json:"duration"     validate:"gte=0,halfstep"`
	ApproverIDs []uint64 `json:"approver_ids" validate:"dive,gt=0"`
	RefererIDs  []uint64 `json:"referer_ids"  validate:"dive,gt=0"`
	Draft       bool     `json:"draft"`
}

func (h *Handler) CreateDocument(c echo.Context) error {
	var req createDocumentReq
	if code, resp := bindValid(c, &req); resp != nil {
		return c.JSON(code, resp)
	}
	// validator already checked the layout
	start, _ := parseDate(req.StartDate)
	end, _ := parseDate(req.EndDate)

	view, err := h.docs.Create(c.Request().Context(), docuc.CreateInput{
		OwnerID:     mw.ActorID(c),
		Type:        document.Type(req.Type),
		Title:       req.Title,
		Content:     req.Content,
		SubType:     req.SubType,
		StartDate:   start,
		EndDate:     end,
		Duration:    req.Duration,
		ApproverIDs: req.ApproverIDs,
		RefererIDs:  req.RefererIDs,
		Draft:       req.Draft,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

type submitDraftReq struct {
	ApproverIDs []uint64 `json:"approver_ids" validate:"dive,gt=0"`
	RefererIDs  []uint64 `json:"referer_ids"  validate:"dive,gt=0"`
}

func (h *Handler) SubmitDraft(c echo.Context) error {
	docID, err := pathID(c)
	if err != nil {
		return badInput(c, err.Error())
	}
	var req submitDraftReq
	if code, resp := bindValid(c, &req); resp != nil {
		return c.JSON(code, resp)
	}
	view, err := h.docs.SubmitDraft(c.Request().Context(), docuc.SubmitInput{
		DocumentID:  docID,
		OwnerID:     mw.ActorID(c),
		ApproverIDs: req.ApproverIDs,
		RefererIDs:  req.RefererIDs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) GetDocument(c echo.Context) error {
	docID, err := pathID(c)
	if err != nil {
		return badInput(c, err.Error())
	}
	view, err := h.docs.Get(c.Request().Context(), docID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *Handler) GetRoute(c echo.Context) error {
	docID, err := pathID(c)
	if err != nil {
		return badInput(c, err.Error())
	}
	steps, err := h.docs.GetRouteStatus(c.Request().Context(), docID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"document_id": docID, "route": steps})
}

func (h *Handler) ListDocuments(c echo.Context) error {
	statuses, err := queryStatuses(c)
	if err != nil {
		return badInput(c, err.Error())
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return badInput(c, err.Error())
	}
	size, err := queryInt(c, "size", 0)
	if err != nil {
		return badInput(c, err.Error())
	}
	out, err := h.docs.ListOwned(c.Request().Context(), docuc.ListInput{
		OwnerID:  mw.ActorID(c),
		Statuses: statuses,
		Page:     page,
		Size:     size,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Inbox(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return badInput(c, err.Error())
	}
	size, err := queryInt(c, "size", 0)
	if err != nil {
		return badInput(c, err.Error())
	}
	out, err := h.docs.Inbox(c.Request().Context(), mw.ActorID(c), page, size)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type actReq struct {
	Action    string `json:"action"    validate:"required,oneof=approve reject"`
	Signature string `json:"signature" validate:"max=255"`
}

// Act returns 422 INSUFFICIENT_BALANCE together with the committed outcome
// when a leave document could not be debited.
func (h *Handler) Act(c echo.Context) error {
	docID, err := pathID(c)
	if err != nil {
		return badInput(c, err.Error())
	}
	var req actReq
	if code, resp := bindValid(c, &req); resp != nil {
		return c.JSON(code, resp)
	}
	out, err := h.moves.Act(c.Request().Context(), transition.ActInput{
		DocumentID: docID,
		ActorID:    mw.ActorID(c),
		Action:     route.Action(req.Action),
		Signature:  req.Signature,
	})
	if err != nil {
		if errors.Is(err, member.ErrInsufficientBalance) && out != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]any{
				"code":    "INSUFFICIENT_BALANCE",
				"error":   err.Error(),
				"outcome": out,
			})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Recall(c echo.Context) error {
	docID, err := pathID(c)
	if err != nil {
		return badInput(c, err.Error())
	}
	out, err := h.moves.Recall(c.Request().Context(), docID, mw.ActorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Acknowledge(c echo.Context) error {
	docID, err := pathID(c)
	if err != nil {
		return badInput(c, err.Error())
	}
	out, err := h.moves.Acknowledge(c.Request().Context(), docID, mw.ActorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) Notifications(c echo.Context) error {
	b, err := h.badges.Badges(c.Request().Context(), mw.ActorID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
