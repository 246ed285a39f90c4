package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/seobrien/jobledger/internal/models"
)

var ErrCustomerNotFound = errors.New("customer_not_found")

// CustomerService owns customer persistence. Customers are never deleted;
// jobs keep a non-owning reference to them.
type CustomerService struct{ DB *gorm.DB }

func NewCustomerService(db *gorm.DB) *CustomerService { return &CustomerService{DB: db} }

// GetCustomers returns all customers ordered by name.
func (s *CustomerService) GetCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.DB.Order("name").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// GetCustomer loads a single customer by id.
func (s *CustomerService) GetCustomer(id uint) (*models.Customer, error) {
	var customer models.Customer
	if err := s.DB.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("load customer %d: %w", id, err)
	}
	return &customer, nil
}

// AddCustomer creates a customer and returns it with its assigned id.
func (s *CustomerService) AddCustomer(customer *models.Customer) (*models.Customer, error) {
	if err := s.DB.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}
	return customer, nil
}

// UpdateCustomer overwrites the stored fields of an existing customer.
func (s *CustomerService) UpdateCustomer(id uint, customer *models.Customer) (*models.Customer, error) {
	existing, err := s.GetCustomer(id)
	if err != nil {
		return nil, err
	}
	existing.Name = customer.Name
	existing.CompanyName = customer.CompanyName
	existing.RoleTitle = customer.RoleTitle
	existing.Email = customer.Email
	existing.PhoneNumbers = customer.PhoneNumbers
	existing.Address = customer.Address
	if err := s.DB.Save(existing).Error; err != nil {
		return nil, fmt.Errorf("update customer %d: %w", id, err)
	}
	return existing, nil
}
