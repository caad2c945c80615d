package admin

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"yantrashilpa.com/web/internal/http/flash"
	"yantrashilpa.com/web/internal/http/middleware"
	"yantrashilpa.com/web/internal/http/render"
	"yantrashilpa.com/web/internal/modules/products"
	"yantrashilpa.com/web/internal/shared/apperr"
	"yantrashilpa.com/web/pkg/view"
	"yantrashilpa.com/web/templates/pages"
)

const manageProductsPath = "/admin/dashboard/manage-products"

type productInput struct {
	Name        string `form:"name"`
	Category    string `form:"category"`
	Description string `form:"description"`
}

type ProductsHandler struct {
	R             *render.Renderer
	Products      *products.Service
	Flash         *flash.Codec
	MaxImageBytes int64
}

func NewProductsHandler(r *render.Renderer, svc *products.Service, f *flash.Codec, maxImage int64) *ProductsHandler {
	return &ProductsHandler{R: r, Products: svc, Flash: f, MaxImageBytes: maxImage}
}

func (h *ProductsHandler) AddForm(c *gin.Context) {
	h.renderAdd(c, http.StatusOK, view.ProductForm{}, "")
}

func (h *ProductsHandler) Add(c *gin.Context) {
	var in productInput
	if err := c.ShouldBind(&in); err != nil {
		// The body cap sits just above the image limit, so tripping it
		// means the chosen file was too big.
		msg := "Please fill in all required fields."
		if isTooLarge(err) {
			msg = mustMessage(products.ErrImageTooLarge)
		}
		h.renderAdd(c, http.StatusBadRequest, view.ProductForm{}, msg)
		return
	}
	form := view.ProductForm{Name: in.Name, Category: in.Category, Description: in.Description}

	ci := products.CreateInput{Name: in.Name, Category: in.Category, Description: in.Description}
	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
		// No file chosen; Create reports ErrImageRequired.
	case isTooLarge(err):
		h.renderAdd(c, http.StatusBadRequest, form, mustMessage(products.ErrImageTooLarge))
		return
	case err != nil:
		_ = c.Error(apperr.Wrap(err))
		return
	default:
		f, err := fh.Open()
		if err != nil {
			_ = c.Error(apperr.Wrap(err))
			return
		}
		defer f.Close()
		ci.Image = f
		ci.ImageMeta = metaOf(fh)
	}

	u, _ := middleware.CurrentUser(c)
	if _, err := h.Products.Create(c.Request.Context(), u.Email, ci); err != nil {
		if msg, ok := products.Message(err); ok {
			h.renderAdd(c, http.StatusBadRequest, form, msg)
			return
		}
		_ = c.Error(apperr.Wrap(err))
		return
	}

	render.RedirectWithFlash(c, h.Flash, "/admin/dashboard/add-product", view.FlashSuccess, "Product added successfully!")
}

func (h *ProductsHandler) renderAdd(c *gin.Context, status int, form view.ProductForm, msg string) {
	render.Component(c, status, pages.AddProduct(h.R.Layout(c, "Add Product"), view.AddProductPage{
		Form:       form,
		Categories: products.Categories,
		Error:      msg,
		MaxImageMB: h.MaxImageBytes >> 20,
	}))
}

func (h *ProductsHandler) Manage(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	category := c.Query("category")
	if !products.ValidCategory(category) {
		category = products.AllCategories
	}

	list, err := h.Products.Search(c.Request.Context(), products.Filter{Query: q, Category: category})
	if err != nil {
		_ = c.Error(apperr.Wrap(err))
		return
	}

	back := manageHref(q, category, "")
	rows := make([]view.ProductRow, 0, len(list))
	for _, p := range list {
		rows = append(rows, view.ProductRow{
			Product:      p,
			ToggleAction: manageProductsPath + "/" + url.PathEscape(p.ID) + "/toggle",
			DeleteAction: manageProductsPath + "/" + url.PathEscape(p.ID) + "/delete",
			ConfirmHref:  manageHref(q, category, p.ID),
		})
	}

	page := view.ManageProductsPage{
		Query:      q,
		Category:   category,
		Categories: append([]string{products.AllCategories}, products.Categories...),
		Rows:       rows,
		Total:      len(rows),
		CancelHref: back,
	}
	if id := c.Query("confirm"); id != "" {
		p, err := h.Products.Get(c.Request.Context(), id)
		switch {
		case err == nil:
			page.Confirm = &p
		case !errors.Is(err, products.ErrNotFound):
			_ = c.Error(apperr.Wrap(err))
			return
		}
	}
	render.Component(c, http.StatusOK, pages.ManageProducts(h.R.Layout(c, "Manage Products"), page))
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	back := manageHref(c.PostForm("q"), c.PostForm("category"), "")

	p, err := h.Products.Delete(c.Request.Context(), u.Email, c.Param("id"))
	switch {
	case errors.Is(err, products.ErrNotFound):
		render.RedirectWithFlash(c, h.Flash, back, view.FlashError, "Product not found.")
		return
	case err != nil:
		_ = c.Error(apperr.Wrap(err))
		return
	}
	render.RedirectWithFlash(c, h.Flash, back, view.FlashSuccess, "\""+p.Name+"\" was deleted.")
}

func (h *ProductsHandler) Toggle(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	back := manageHref(c.PostForm("q"), c.PostForm("category"), "")

	p, err := h.Products.ToggleStatus(c.Request.Context(), u.Email, c.Param("id"))
	switch {
	case errors.Is(err, products.ErrNotFound):
		render.RedirectWithFlash(c, h.Flash, back, view.FlashError, "Product not found.")
		return
	case err != nil:
		_ = c.Error(apperr.Wrap(err))
		return
	}
	render.RedirectWithFlash(c, h.Flash, back, view.FlashSuccess, "\""+p.Name+"\" is now "+p.Status+".")
}

func manageHref(q, category, confirm string) string {
	v := url.Values{}
	if q = strings.TrimSpace(q); q != "" {
		v.Set("q", q)
	}
	if products.ValidCategory(category) {
		v.Set("category", category)
	}
	if confirm != "" {
		v.Set("confirm", confirm)
	}
	if len(v) == 0 {
		return manageProductsPath
	}
	return manageProductsPath + "?" + v.Encode()
}

func metaOf(fh *multipart.FileHeader) products.ImageMeta {
	return products.ImageMeta{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
}

func isTooLarge(err error) bool {
	var tooBig *http.MaxBytesError
	return errors.As(err, &tooBig)
}

func mustMessage(err error) string {
	msg, _ := products.Message(err)
	return msg
}

func itoa(n int) string { return strconv.Itoa(n) }
