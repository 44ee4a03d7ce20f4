package controllers

import (
	"github.com/gin-gonic/gin"

	"tabi/internal/models/request_models"
	"tabi/internal/services"
	"tabi/pkg/utils"
)

// ItineraryController serves the ordered contents of a daily plan.
type ItineraryController struct {
	spotService    services.SpotServiceInterface
	segmentService services.TravelSegmentServiceInterface
}

func NewItineraryController(spotService services.SpotServiceInterface, segmentService services.TravelSegmentServiceInterface) *ItineraryController {
	return &ItineraryController{
		spotService:    spotService,
		segmentService: segmentService,
	}
}

// AddSpot godoc
// @Summary Add a spot to a daily plan
// @Description visit_order past the end appends. A positive cost also records an expense.
// @Tags Spots
// @Accept json
// @Produce json
// @Param dayId path string true "Daily plan ID"
// @Param request body request_models.AddSpotRequest true "Spot"
// @Success 201 {object} response_models.SpotResponse
// @Security BearerAuth
// @Router /days/{dayId}/spots [post]
func (i *ItineraryController) AddSpot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathUUID(c, "dayId")
	if !ok {
		return
	}
	var req request_models.AddSpotRequest
	if !bindJSON(c, &req) {
		return
	}

	spot, err := i.spotService.AddSpot(c.Request.Context(), dayID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, spot, "Spot added successfully")
}

// ListSpots godoc
// @Summary Spots of a daily plan in visit order
// @Tags Spots
// @Produce json
// @Param dayId path string true "Daily plan ID"
// @Success 200 {array} response_models.SpotResponse
// @Security BearerAuth
// @Router /days/{dayId}/spots [get]
func (i *ItineraryController) ListSpots(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathUUID(c, "dayId")
	if !ok {
		return
	}

	spots, err := i.spotService.ListSpots(c.Request.Context(), dayID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, spots, "Spots fetched successfully")
}

// GetSpot godoc
// @Summary Spot details
// @Tags Spots
// @Produce json
// @Param spotId path string true "Spot ID"
// @Success 200 {object} response_models.SpotResponse
// @Security BearerAuth
// @Router /spots/{spotId} [get]
func (i *ItineraryController) GetSpot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	spotID, ok := pathUUID(c, "spotId")
	if !ok {
		return
	}

	spot, err := i.spotService.GetSpot(c.Request.Context(), spotID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, spot, "Spot fetched successfully")
}

// UpdateSpot godoc
// @Summary Update a spot
// @Description Changing visit_order moves the spot. Changing cost syncs its expense.
// @Tags Spots
// @Accept json
// @Produce json
// @Param spotId path string true "Spot ID"
// @Param request body request_models.UpdateSpotRequest true "Fields to change"
// @Success 200 {object} response_models.SpotResponse
// @Security BearerAuth
// @Router /spots/{spotId} [patch]
func (i *ItineraryController) UpdateSpot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	spotID, ok := pathUUID(c, "spotId")
	if !ok {
		return
	}
	var req request_models.UpdateSpotRequest
	if !bindJSON(c, &req) {
		return
	}

	spot, err := i.spotService.UpdateSpot(c.Request.Context(), spotID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, spot, "Spot updated successfully")
}

// DeleteSpot godoc
// @Summary Delete a spot
// @Description Also removes travel segments touching it and its expense
// @Tags Spots
// @Param spotId path string true "Spot ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /spots/{spotId} [delete]
func (i *ItineraryController) DeleteSpot(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	spotID, ok := pathUUID(c, "spotId")
	if !ok {
		return
	}

	if err := i.spotService.DeleteSpot(c.Request.Context(), spotID, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Spot deleted successfully")
}

// AddSegment godoc
// @Summary Add a travel segment
// @Description Both spots must belong to the daily plan
// @Tags Travel segments
// @Accept json
// @Produce json
// @Param dayId path string true "Daily plan ID"
// @Param request body request_models.AddTravelSegmentRequest true "Segment"
// @Success 201 {object} response_models.TravelSegmentResponse
// @Failure 400 {object} utils.APIResponse
// @Security BearerAuth
// @Router /days/{dayId}/segments [post]
func (i *ItineraryController) AddSegment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathUUID(c, "dayId")
	if !ok {
		return
	}
	var req request_models.AddTravelSegmentRequest
	if !bindJSON(c, &req) {
		return
	}

	segment, err := i.segmentService.AddSegment(c.Request.Context(), dayID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, segment, "Travel segment added successfully")
}

// ListSegments godoc
// @Summary Travel segments of a daily plan in order
// @Tags Travel segments
// @Produce json
// @Param dayId path string true "Daily plan ID"
// @Success 200 {array} response_models.TravelSegmentResponse
// @Security BearerAuth
// @Router /days/{dayId}/segments [get]
func (i *ItineraryController) ListSegments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	dayID, ok := pathUUID(c, "dayId")
	if !ok {
		return
	}

	segments, err := i.segmentService.ListSegments(c.Request.Context(), dayID, userID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, segments, "Travel segments fetched successfully")
}

// UpdateSegment godoc
// @Summary Update a travel segment
// @Tags Travel segments
// @Accept json
// @Produce json
// @Param segmentId path string true "Segment ID"
// @Param request body request_models.UpdateTravelSegmentRequest true "Fields to change"
// @Success 200 {object} response_models.TravelSegmentResponse
// @Security BearerAuth
// @Router /segments/{segmentId} [patch]
func (i *ItineraryController) UpdateSegment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	segmentID, ok := pathUUID(c, "segmentId")
	if !ok {
		return
	}
	var req request_models.UpdateTravelSegmentRequest
	if !bindJSON(c, &req) {
		return
	}

	segment, err := i.segmentService.UpdateSegment(c.Request.Context(), segmentID, userID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, segment, "Travel segment updated successfully")
}

// DeleteSegment godoc
// @Summary Delete a travel segment
// @Tags Travel segments
// @Param segmentId path string true "Segment ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /segments/{segmentId} [delete]
func (i *ItineraryController) DeleteSegment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	segmentID, ok := pathUUID(c, "segmentId")
	if !ok {
		return
	}

	if err := i.segmentService.DeleteSegment(c.Request.Context(), segmentID, userID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Travel segment deleted successfully")
}
