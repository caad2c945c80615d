package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"yantrashilpa.com/web/internal/content"
	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/internal/http/validation"
	"yantrashilpa.com/web/internal/modules/contact"
	"yantrashilpa.com/web/internal/shared/apperr"
	"yantrashilpa.com/web/pkg/view"
	"yantrashilpa.com/web/templates/pages"
)

type contactInput struct {
	Name    string `form:"name" binding:"required,max=100"`
	Email   string `form:"email" binding:"required,email,max=255"`
	Subject string `form:"subject" binding:"required,max=200"`
	Message string `form:"message" binding:"required,max=5000"`
}

type ContactHandler struct {
	R       *render.Renderer
	Site    *content.Site
	Contact *contact.Service
	Flash   *flash.Codec
}

func NewContactHandler(r *render.Renderer, site *content.Site, svc *contact.Service, f *flash.Codec) *ContactHandler {
	return &ContactHandler{R: r, Site: site, Contact: svc, Flash: f}
}

func (h *ContactHandler) Get(c *gin.Context) {
	h.render(c, http.StatusOK, view.ContactForm{}, nil)
}

func (h *ContactHandler) Post(c *gin.Context) {
	var in contactInput
	if err := c.ShouldBind(&in); err != nil {
		h.render(c, http.StatusBadRequest, formOf(in), validation.FromBindError(err, &in))
		return
	}

	_, err := h.Contact.Submit(c.Request.Context(), contact.Input{
		Name:     in.Name,
		Email:    in.Email,
		Subject:  in.Subject,
		Message:  in.Message,
		ClientIP: c.ClientIP(),
	})
	var ve validator.ValidationErrors
	switch {
	case errors.As(err, &ve):
		// The service trims before validating, so "   " still lands here.
		fields := validation.FromBindError(ve, &contact.Message{})
		if msg, ok := fields["body"]; ok {
			fields["message"] = msg
			delete(fields, "body")
		}
		h.render(c, http.StatusBadRequest, formOf(in), fields)
		return
	case err != nil:
		_ = c.Error(apperr.Wrap(err))
		return
	}

	render.RedirectWithFlash(c, h.Flash, "/contact", view.FlashSuccess, h.Site.Contact.ThankYou)
}

func (h *ContactHandler) render(c *gin.Context, status int, form view.ContactForm, errs map[string]string) {
	render.Component(c, status, pages.Contact(h.R.Layout(c, "Contact Us"), view.ContactPage{
		Hero:    view.NewPageHero(h.Site.Page("contact")),
		Contact: h.Site.Contact,
		Social:  h.Site.Social,
		Form:    form,
		Errors:  errs,
	}))
}

func formOf(in contactInput) view.ContactForm {
	return view.ContactForm{Name: in.Name, Email: in.Email, Subject: in.Subject, Message: in.Message}
}
