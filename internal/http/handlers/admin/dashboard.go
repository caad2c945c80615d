package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/internal/modules/dashboard"
	"yantrashilpa.com/web/internal/shared/apperr"
	"yantrashilpa.com/web/internal/ui"
	"yantrashilpa.com/web/pkg/view"
	"yantrashilpa.com/web/templates/pages"
)

type DashboardHandler struct {
	R         *render.Renderer
	Dashboard *dashboard.Service
}

func NewDashboardHandler(r *render.Renderer, d *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{R: r, Dashboard: d}
}

func (h *DashboardHandler) Home(c *gin.Context) {
	sum, err := h.Dashboard.Summary(c.Request.Context())
	if err != nil {
		_ = c.Error(apperr.Wrap(err))
		return
	}

	s := sum.Stats
	cards := []view.StatCard{
		{Title: "Total Products", Value: ui.FormatThousands(int(s.TotalProducts)), Note: "In the catalogue", Icon: "package", Color: "bg-blue-500"},
		{Title: "Recent Uploads", Value: ui.FormatThousands(int(s.RecentUploads)), Note: "+" + itoa(int(s.RecentUploads)) + " this week", Icon: "trending-up", Color: "bg-[#F97316]"},
		{Title: "Total Views", Value: ui.FormatThousands(int(s.TotalViews)), Note: "Public page views", Icon: "activity", Color: "bg-green-500"},
		{Title: "Active Users", Value: ui.FormatThousands(int(s.ActiveUsers)), Note: "Signed-in sessions", Icon: "users", Color: "bg-purple-500"},
		{Title: "Messages", Value: ui.FormatThousands(int(s.Messages)), Note: "Contact enquiries", Icon: "mail", Color: "bg-teal-500"},
	}

	render.Component(c, http.StatusOK, pages.Dashboard(h.R.Layout(c, "Dashboard"), view.DashboardPage{
		Cards:    cards,
		Products: sum.Products,
		Messages: sum.Messages,
		Events:   sum.Events,
	}))
}
