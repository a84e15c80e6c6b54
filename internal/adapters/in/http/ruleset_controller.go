package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/booking-calendar-service/internal/config"
	"github.com/suchimauz/booking-calendar-service/internal/core/domain"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/in"
	"github.com/suchimauz/booking-calendar-service/internal/utils"
)

// RuleSetController - эндпоинты мастера настройки рабочих часов.
// Отклоненное изменение - не ошибка: ответ applied=false с актуальным
// состоянием набора, клиент просто не видит изменения.
type RuleSetController struct {
	useCase  in.RuleSetUseCase
	cfg      *config.Config
	location *time.Location
}

func NewRuleSetController(useCase in.RuleSetUseCase, cfg *config.Config, location *time.Location) *RuleSetController {
	return &RuleSetController{
		useCase:  useCase,
		cfg:      cfg,
		location: location,
	}
}

func (c *RuleSetController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/working-hours")
	api.Use(basicAuth(c.cfg))
	{
		api.GET("/rules", c.listRules)
		api.POST("/rules", c.addRule)
		api.POST("/rules/:id/days/:day", c.toggleDay)
		api.PATCH("/rules/:id", c.updateRule)
		api.DELETE("/rules/:id", c.removeRule)
		api.POST("/rules/:id/nudge", c.nudgeRule)
		api.GET("/rules/:id/slots", c.ruleSlots)
	}
}

func (c *RuleSetController) listRules(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"rules": c.useCase.Rules()})
}

func (c *RuleSetController) addRule(ctx *gin.Context) {
	rule, applied := c.useCase.AddRule()

	response := gin.H{
		"applied": applied,
		"rules":   c.useCase.Rules(),
	}
	if applied {
		response["rule"] = rule
	}
	ctx.JSON(http.StatusOK, response)
}

func (c *RuleSetController) toggleDay(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID format"})
		return
	}

	applied := c.useCase.ToggleDay(ruleID, domain.DayCode(ctx.Param("day")))
	ctx.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"rules":   c.useCase.Rules(),
	})
}

func (c *RuleSetController) updateRule(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID format"})
		return
	}

	var patch domain.RulePatch
	if err := ctx.ShouldBindJSON(&patch); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	applied := c.useCase.UpdateRule(ruleID, patch)
	ctx.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"rules":   c.useCase.Rules(),
	})
}

func (c *RuleSetController) removeRule(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID format"})
		return
	}

	applied := c.useCase.RemoveRule(ruleID)
	ctx.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"rules":   c.useCase.Rules(),
	})
}

type NudgeRequest struct {
	Field     string `json:"field" binding:"required,oneof=start end"`
	Direction int    `json:"direction" binding:"required,oneof=-1 1"`
}

func (c *RuleSetController) nudgeRule(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID format"})
		return
	}

	var req NudgeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var applied bool
	if req.Field == "start" {
		applied = c.useCase.NudgeStartHour(ruleID, req.Direction)
	} else {
		applied = c.useCase.NudgeEndHour(ruleID, req.Direction)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"applied": applied,
		"rules":   c.useCase.Rules(),
	})
}

func (c *RuleSetController) ruleSlots(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rule ID format"})
		return
	}

	day, err := utils.ParseDate(ctx.Query("date"), c.location)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return
	}

	preview, exists := c.useCase.RuleSlots(ruleID, day)
	if !exists {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Rule not found"})
		return
	}

	ctx.JSON(http.StatusOK, preview)
}
