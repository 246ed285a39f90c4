package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/seobrien/jobledger/internal/httpx"
	"github.com/seobrien/jobledger/internal/models"
	"github.com/seobrien/jobledger/internal/services"
	"github.com/seobrien/jobledger/internal/validation"
)

// CustomerHandler serves the customer endpoints.
type CustomerHandler struct {
	Svc *services.CustomerService
}

func NewCustomerHandler(svc *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{Svc: svc}
}

// List: GET /customers
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	customers, err := h.Svc.GetCustomers()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_customers", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": customers, "total": len(customers)})
}

// View: GET /customers/{id}
func (h *CustomerHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	customer, err := h.Svc.GetCustomer(id)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "customer_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_load_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

// Create: POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var customer models.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", customer.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	customer.ID = 0
	created, err := h.Svc.AddCustomer(&customer)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_create_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

// Update: POST /customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var customer models.Customer
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("name", customer.Name, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	updated, err := h.Svc.UpdateCustomer(id, &customer)
	if err != nil {
		if errors.Is(err, services.ErrCustomerNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "customer_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_update_customer", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, updated)
}
