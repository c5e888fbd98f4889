package api

import (
	"log/slog"
	"net/http"

	"cng-slot-booking/internal/domain/scan"
	reqdto "cng-slot-booking/internal/handler/dto/request"
	resdto "cng-slot-booking/internal/handler/dto/response"
	"cng-slot-booking/internal/handler/middleware"
	"cng-slot-booking/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RedemptionHandler struct {
	cmds commands.RedemptionCommands
}

func NewRedemptionHandler(cmds commands.RedemptionCommands) *RedemptionHandler {
	return &RedemptionHandler{cmds: cmds}
}

// @Summary Redeem token
// @Description Validate and consume a scanned token at a pump. tokenCode may be a raw code, a JSON envelope or legacy QR text.
// @Tags tokens
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.RedeemTokenRequest true "Scan"
// @Success 200 {object} resdto.RedeemSuccessResponse
// @Failure 400 {object} resdto.RedeemFailureResponse
// @Failure 401 {object} resdto.RedeemFailureResponse
// @Failure 403 {object} resdto.RedeemFailureResponse
// @Failure 404 {object} resdto.RedeemFailureResponse
// @Failure 429 {object} resdto.RedeemFailureResponse
// @Failure 500 {object} resdto.RedeemFailureResponse
// @Router /tokens/redeem [post]
func (h *RedemptionHandler) Redeem(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, resdto.RedeemFailure("Unauthorized"))
		return
	}

	var req reqdto.RedeemTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, resdto.RedeemFailure("Invalid request format"))
		return
	}

	pumpID, err := uuid.Parse(req.PumpID)
	if err != nil {
		c.JSON(http.StatusBadRequest, resdto.RedeemFailure("Invalid pump id"))
		return
	}

	result, err := h.cmds.Redeem(c.Request.Context(), actor, commands.RedeemTokenRequest{
		Code:   req.TokenCode.Code(),
		PumpID: pumpID,
	})
	if err != nil {
		slog.Error("token redemption failed",
			"request_id", middleware.GetRequestID(c),
			"pump_id", pumpID,
			"error", err.Error())
		c.JSON(http.StatusInternalServerError, resdto.RedeemFailure("Internal server error"))
		return
	}

	if result.Result.IsSuccess() {
		resp, err := resdto.FromRedemptionSuccess(result)
		if err != nil {
			c.JSON(http.StatusInternalServerError, resdto.RedeemFailure("Internal server error"))
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	c.JSON(redemptionStatus(result.Result), resdto.FromRedemptionFailure(result))
}

func redemptionStatus(r scan.Result) int {
	switch r {
	case scan.ResultUnauthorizedPump:
		return http.StatusForbidden
	case scan.ResultNotFound:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
