package view

import (
	"yantrashilpa.com/web/internal/modules/audit"
	"yantrashilpa.com/web/internal/modules/dashboard"
	"yantrashilpa.com/web/internal/modules/products"
)

type LoginForm struct {
	Email string
}

type LoginPage struct {
	Form        LoginForm
	Errors      map[string]string
	Error       string
	Locked      bool
	LockoutText string // "Account locked for N minutes"
	Remaining   string // "N attempts remaining"
}

type StatCard struct {
	Title string
	Value string
	Note  string
	Icon  string
	Color string
}

type DashboardPage struct {
	Cards    []StatCard
	Products []dashboard.RecentProduct
	Messages []dashboard.RecentMessage
	Events   []audit.Event
}

type ProductForm struct {
	Name        string
	Category    string
	Description string
}

type AddProductPage struct {
	Form       ProductForm
	Categories []string
	Error      string
	MaxImageMB int64
}

type ProductRow struct {
	products.Product
	ToggleAction string
	DeleteAction string
	ConfirmHref  string
}

type ManageProductsPage struct {
	Query      string
	Category   string
	Categories []string
	Rows       []ProductRow
	Total      int
	Confirm    *products.Product
	CancelHref string
}
