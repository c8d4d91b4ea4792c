package api

import (
	"alcyxob/runplan/internal/domain"
	"alcyxob/runplan/internal/schedule"
	"alcyxob/runplan/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler holds the plan service dependency.
type PlanHandler struct {
	planService service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- Request/Response Structs ---

type CreatePlanRequest struct {
	Name      string               `json:"name" binding:"required"`
	StartDate string               `json:"startDate" binding:"required"`
	RaceDate  string               `json:"raceDate"`
	Days      []domain.ScheduleDay `json:"days" binding:"required"`
}

type PlanResponse struct {
	Plan        *domain.PlanDocument  `json:"plan"`
	Diagnostics *schedule.Diagnostics `json:"diagnostics,omitempty"`
}

type LogFeedbackRequest struct {
	WeekNumber       int                     `json:"weekNumber" binding:"required,min=1"`
	IsKeyWorkout     bool                    `json:"isKeyWorkout"`
	CompletionStatus domain.CompletionStatus `json:"completionStatus" binding:"required,oneof=completed modified missed"`
	EffortVsExpected domain.EffortLevel      `json:"effortVsExpected" binding:"omitempty,oneof=easier as_expected harder"`
	HRMatchedTarget  domain.HRMatch          `json:"hrMatchedTarget" binding:"omitempty,oneof=yes no unsure"`
}

// --- Handler Methods ---

// CreatePlan stores a new canonical-format plan for the authenticated runner.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	ownerID, err := currentUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user identity")
		return
	}

	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), ownerID, req.Name, req.StartDate, req.RaceDate, req.Days)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStartDate) || errors.Is(err, service.ErrEmptySchedule) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not create plan")
		}
		return
	}

	c.JSON(http.StatusCreated, PlanResponse{Plan: plan})
}

// ListPlans returns the authenticated runner's plans.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	ownerID, err := currentUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user identity")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Could not list plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlan returns a plan normalized to the canonical format. Legacy plans
// are migrated on this read.
func (h *PlanHandler) GetPlan(c *gin.Context) {
	planID, err := planIDFromPath(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	plan, diags, err := h.planService.GetPlan(c.Request.Context(), planID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Could not load plan")
		}
		return
	}
	if !h.authorizePlanAccess(c, plan) {
		return
	}

	c.JSON(http.StatusOK, PlanResponse{Plan: plan, Diagnostics: &diags})
}

// GetProgress computes the phase progress summary for ?week=N.
func (h *PlanHandler) GetProgress(c *gin.Context) {
	planID, err := planIDFromPath(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}
	week, err := strconv.Atoi(c.Query("week"))
	if err != nil || week < 1 {
		abortWithError(c, http.StatusBadRequest, "Query parameter 'week' must be a positive integer")
		return
	}

	summary, err := h.planService.GetProgress(c.Request.Context(), planID, week)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrProgressNotAvailable):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not compute progress")
		}
		return
	}
	c.JSON(http.StatusOK, summary)
}

// LogFeedback records one workout completion signal for a plan.
func (h *PlanHandler) LogFeedback(c *gin.Context) {
	planID, err := planIDFromPath(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var req LogFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	feedback := &domain.WorkoutFeedback{
		PlanID:           planID,
		WeekNumber:       req.WeekNumber,
		IsKeyWorkout:     req.IsKeyWorkout,
		CompletionStatus: req.CompletionStatus,
		EffortVsExpected: req.EffortVsExpected,
		HRMatchedTarget:  req.HRMatchedTarget,
	}

	feedbackID, err := h.planService.LogFeedback(c.Request.Context(), feedback)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrInvalidFeedback), errors.Is(err, service.ErrInvalidWeekNumber):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not record feedback")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": feedbackID.Hex()})
}

// GetArchiveSnapshot returns a presigned download URL for the plan's
// pre-migration archive snapshot.
func (h *PlanHandler) GetArchiveSnapshot(c *gin.Context) {
	planID, err := planIDFromPath(c)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID")
		return
	}
	requesterID, err := currentUserObjectID(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to resolve user identity")
		return
	}
	role, _ := getUserRoleFromContext(c)

	url, err := h.planService.ArchiveSnapshotURL(c.Request.Context(), planID, requesterID, role)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlanNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrPlanNotOwned):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrNoArchiveSnapshot):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Could not generate download URL")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": url})
}

// authorizePlanAccess allows the owning runner and any coach. Writes false
// and aborts when access is denied.
func (h *PlanHandler) authorizePlanAccess(c *gin.Context, plan *domain.PlanDocument) bool {
	role, err := getUserRoleFromContext(c)
	if err == nil && role == domain.RoleCoach {
		return true
	}
	userID, err := currentUserObjectID(c)
	if err != nil || plan.OwnerID != userID {
		abortWithError(c, http.StatusForbidden, service.ErrPlanNotOwned.Error())
		return false
	}
	return true
}

func planIDFromPath(c *gin.Context) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(c.Param("planId"))
}

func currentUserObjectID(c *gin.Context) (primitive.ObjectID, error) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(idStr)
}
