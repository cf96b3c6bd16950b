package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mavi-suporte/helpdesk-service/internal/errs"
	"github.com/mavi-suporte/helpdesk-service/internal/kafka"
	"github.com/mavi-suporte/helpdesk-service/internal/metrics"
	"github.com/mavi-suporte/helpdesk-service/internal/middleware"
	"github.com/mavi-suporte/helpdesk-service/internal/model"
	"github.com/mavi-suporte/helpdesk-service/internal/notify"
	"github.com/mavi-suporte/helpdesk-service/internal/report"
	"github.com/mavi-suporte/helpdesk-service/internal/service"
	"go.uber.org/zap"
)

type TicketHandler struct {
	svc        *service.TicketService
	dispatcher *notify.Dispatcher
	producer   kafka.TicketEventProducer
	audit      *service.AuditService
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

func NewTicketHandler(svc *service.TicketService, dispatcher *notify.Dispatcher, producer kafka.TicketEventProducer, audit *service.AuditService, m *metrics.Metrics, logger *zap.Logger) *TicketHandler {
	return &TicketHandler{svc: svc, dispatcher: dispatcher, producer: producer, audit: audit, metrics: m, logger: logger}
}

type createTicketRequest struct {
	Nome        string   `json:"nome" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	SquadLeader string   `json:"squad_leader" binding:"required"`
	Devices     []string `json:"dispositivos" binding:"required"`
	Necessidade string   `json:"necessidade" binding:"required"`
	Prioridade  string   `json:"prioridade"`
}

func (h *TicketHandler) Create(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	ticket, err := h.svc.Create(c.Request.Context(), service.CreateTicketInput{
		RequesterName:  req.Nome,
		RequesterEmail: req.Email,
		SquadLeader:    req.SquadLeader,
		Devices:        req.Devices,
		Description:    req.Necessidade,
		Priority:       model.Priority(req.Prioridade),
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("create ticket failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create ticket"})
		return
	}
	if h.metrics != nil {
		h.metrics.TicketsCreated.Inc()
	}
	pos, err := h.svc.QueuePosition(c.Request.Context(), ticket.Code)
	if err != nil {
		h.logger.Warn("queue position lookup failed", zap.String("code", ticket.Code), zap.Error(err))
	}

	h.dispatcher.NotifyCreatedAsync(ticket, pos)
	h.produceEvent("ticket.created", ticket)

	c.JSON(http.StatusCreated, gin.H{
		"ticket":       ticket,
		"posicao_fila": pos,
	})
}

func (h *TicketHandler) Get(c *gin.Context) {
	t, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, errs.ErrTicketNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
			return
		}
		h.logger.Error("get ticket failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get ticket"})
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), service.ListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("prioridade"),
	})
	if err != nil {
		h.logger.Error("list tickets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tickets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tickets": items,
		"total":   len(items),
	})
}

func (h *TicketHandler) QueuePosition(c *gin.Context) {
	pos, err := h.svc.QueuePosition(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.logger.Error("queue position failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute queue position"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ticket_id": c.Param("code"), "posicao_fila": pos})
}

type updateStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	Observacao string `json:"observacao"`
}

func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	t, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("code"), model.TicketStatus(req.Status), req.Observacao)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrTicketNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.Error("update status failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update ticket"})
		}
		return
	}

	if user := middleware.UserFrom(c); user != nil && h.audit != nil {
		h.audit.Record(c.Request.Context(), user.Username, "Atualização de Status",
			fmt.Sprintf("Ticket #%s para %q", t.Code, t.Status))
	}
	h.dispatcher.NotifyStatusChangedAsync(t, req.Observacao)
	h.produceEvent("ticket.updated", t)

	c.JSON(http.StatusOK, t)
}

func (h *TicketHandler) Statistics(c *gin.Context) {
	stats, err := h.svc.Statistics(c.Request.Context())
	if err != nil {
		h.logger.Error("statistics failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *TicketHandler) ExportCSV(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context(), service.ListFilter{
		Status:   c.Query("status"),
		Priority: c.Query("prioridade"),
	})
	if err != nil {
		h.logger.Error("export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export tickets"})
		return
	}
	filename := fmt.Sprintf("relatorio_tickets_%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := report.WriteTicketsCSV(c.Writer, items); err != nil {
		h.logger.Error("write csv failed", zap.Error(err))
	}
}

// produceEvent fires a best-effort Kafka event with a detached context so it
// survives request cancellation.
func (h *TicketHandler) produceEvent(event string, t *model.Ticket) {
	if h.producer == nil {
		return
	}
	payload := map[string]interface{}{
		"ticket_id":    t.Code,
		"nome":         t.RequesterName,
		"email":        t.RequesterEmail,
		"squad_leader": t.SquadLeader,
		"dispositivos": t.Devices,
		"prioridade":   string(t.Priority),
		"status":       string(t.Status),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		h.producer.ProduceTicketEvent(ctx, event, payload)
	}()
}
