package api

import (
	"fmt"
	"net/http"

	"github.com/roomly/booking-calendar-backend/internal/schedule/layout"
)

type layoutItemResp struct {
	Booking *bookingResp `json:"booking"`
	Column  int          `json:"column"`
	Columns int          `json:"columns"`
}

type nestedGroupResp struct {
	Parent     *bookingResp   `json:"parent"`
	Children   []*bookingResp `json:"children,omitempty"`
	Standalone bool           `json:"standalone,omitempty"`
}

// getLayoutHandler returns the window's occurrences with stacking metadata:
// flat overlap groups with column assignments by default, or parent/child
// nesting around concurrent-friendly bookings with nested=true.
func (a *Api) getLayoutHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseBookingsQuery(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	occurrences, err := a.bookings.GetBookings(r.Context(), *filter)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get bookings: %w", err))
		return
	}

	if r.URL.Query().Get("nested") == "true" {
		groups := layout.GroupForNestedDisplay(occurrences)

		resp := make([]nestedGroupResp, len(groups))
		for i, g := range groups {
			parent, _ := mapToBookingResp(g.Parent)
			children, _ := mapSlice(g.Children, mapToBookingResp)
			resp[i] = nestedGroupResp{
				Parent:     parent,
				Children:   children,
				Standalone: g.Standalone,
			}
		}

		if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	groups := layout.Layout(occurrences)

	resp := make([][]layoutItemResp, len(groups))
	for i, items := range groups {
		resp[i] = make([]layoutItemResp, len(items))
		for j, item := range items {
			booking, _ := mapToBookingResp(item.Booking)
			resp[i][j] = layoutItemResp{
				Booking: booking,
				Column:  item.Column,
				Columns: item.Columns,
			}
		}
	}

	if err := a.writeJSON(w, http.StatusOK, resp, nil); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}
