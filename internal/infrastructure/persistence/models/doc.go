// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns.
//
// Structure:
// - base.go: BaseModel shared by invoice and item rows
// - invoice.go: InvoiceModel, InvoiceItemModel and the per-year CounterModel
package models
