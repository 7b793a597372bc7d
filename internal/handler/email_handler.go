package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/Eursukkul/venue-booking/internal/dto"
	"github.com/Eursukkul/venue-booking/internal/service"
	"github.com/labstack/echo/v4"
)

var decisionPage = template.Must(template.New("decision").Parse(`<!doctype html>
<html><body style="font-family:Arial,sans-serif">
<h2>Booking #{{.BookingID}}</h2>
<p>{{.Message}}</p>
{{- if .UpdatedSlots}}
<p>Slots: {{range $i, $s := .UpdatedSlots}}{{if $i}}, {{end}}{{$s}}{{end}}</p>
{{- end}}
</body></html>
`))

// EmailHandler applies the anonymous approve/reject links sent to the
// administrator. The signed token is the only credential.
type EmailHandler struct {
	svc service.BookingService
}

func NewEmailHandler(svc service.BookingService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

func (h *EmailHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/email/booking/:token", h.Decide)
}

func (h *EmailHandler) Decide(c echo.Context) error {
	result, err := h.svc.DecideToken(c.Request().Context(), c.Param("token"))
	if err != nil {
		return httpError(err)
	}

	resp := dto.ToDecisionResponse(result)
	if !strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML) {
		return c.JSON(http.StatusOK, resp)
	}

	var buf bytes.Buffer
	if err := decisionPage.Execute(&buf, resp); err != nil {
		return err
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
