package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/glazehouse/potteryapi/domain"
	"github.com/glazehouse/potteryapi/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// BidTooLowResponse carries the smallest acceptable amount back to the caller
type BidTooLowResponse struct {
	Error      string  `json:"error"`
	MinimumBid float64 `json:"minimumBid"`
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = statusForError(err, status)
		if e, ok := domain.AsBidTooLow(err); ok {
			data = BidTooLowResponse{Error: err.Error(), MinimumBid: e.MinimumBid}
		} else {
			data = err.Error()
		}
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

func statusForError(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrNotFound) || errors.Is(err, query.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrAuctionNotActive) ||
		errors.Is(err, domain.ErrAuctionEnded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusMethodNotAllowed
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBidConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCommitFailed):
		return http.StatusInternalServerError
	}
	if _, ok := domain.AsBidTooLow(err); ok {
		return http.StatusBadRequest
	}
	return fallback
}
