package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jaksia/easybook/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Redis Lua script to clean up expired seat holds and return currently valid
// held seat IDs for a show.
var filterValidHoldSeats = redis.NewScript(`
	local setKey = KEYS[1]
	local showId = ARGV[1]
	local cursor = "0"
	local batchSize = 100
	local expiredSeats = {}
	local validSeats = {}

	repeat
		local result = redis.call("SSCAN", setKey, cursor, "COUNT", batchSize)
		cursor = result[1]
		local seatIds = result[2]

		for _, seatId in ipairs(seatIds) do
			local holdKey = "seat_hold:" .. showId .. ":" .. seatId
			if redis.call("EXISTS", holdKey) == 0 then
				table.insert(expiredSeats, seatId)
			else
				table.insert(validSeats, seatId)
			end
		end
	until cursor == "0"

	if #expiredSeats > 0 then
		redis.call("SREM", setKey, unpack(expiredSeats))
	end

	return validSeats
`)

type SeatResponse struct {
	SeatId     int    `json:"seatId"`
	ShowId     int    `json:"showId"`
	SeatNumber string `json:"seatNumber"`
	Booked     bool   `json:"booked"`
	Held       bool   `json:"held"`
}

func (app *Application) GetSeatsByShowHandler(w http.ResponseWriter, r *http.Request) {
	logger := contextGetLogger(r.Context(), app.logger)

	showID, err := app.readIDParam(r, "showId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seats, err := app.seatRepo.GetByShow(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(seats) == 0 {
		logger.Warn("seat map not found for show", "show_id", showID)
		app.notFoundResponse(w, r)
		return
	}

	heldSeats, err := app.validHoldSeats(r.Context(), showID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]SeatResponse, len(seats))
	for i, s := range seats {
		resp[i] = toSeatResponse(s, heldSeats[s.ID])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// validHoldSeats prunes expired hold keys and returns the seat IDs still held
// by a pending payment.
func (app *Application) validHoldSeats(ctx context.Context, showID int) (map[int]bool, error) {
	cmd := filterValidHoldSeats.Run(ctx, app.redis, []string{seatHoldSetKey(showID)}, showID)
	heldSeatIds, err := cmd.Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("failed to run filterValidHoldSeats script: %w", err)
	}

	held := make(map[int]bool, len(heldSeatIds))
	for _, seatId := range heldSeatIds {
		held[int(seatId)] = true
	}

	return held, nil
}

func toSeatResponse(s domain.Seat, held bool) SeatResponse {
	return SeatResponse{
		SeatId:     s.ID,
		ShowId:     s.ShowID,
		SeatNumber: s.SeatNumber,
		Booked:     s.Booked,
		Held:       !s.Booked && held,
	}
}
