package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/uniforms-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the locally synced employees, locations and nomenclature.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a directory repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return r.db
	}
	return r.db.WithContext(ctx)
}

// FindEmployee loads an employee by its ERP employee id. A missing employee
// is reported as (nil, nil).
func (r *Repository) FindEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	employeeID = strings.TrimSpace(employeeID)
	if employeeID == "" {
		return nil, nil
	}
	var employee models.Employee
	err := r.conn(ctx).Where("employee_id = ?", employeeID).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// EmployeesByIDs loads every known employee among ids in a single query,
// keyed by employee id.
func (r *Repository) EmployeesByIDs(ctx context.Context, ids []string) (map[string]models.Employee, error) {
	unique := uniqueNonEmpty(ids)
	out := make(map[string]models.Employee, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	var rows []models.Employee
	if err := r.conn(ctx).Where("employee_id IN ?", unique).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.EmployeeID] = row
	}
	return out, nil
}

// DepartmentGUID returns the ERP department GUID of a location, or "" when
// the location is unknown.
func (r *Repository) DepartmentGUID(ctx context.Context, inventLocationID string) (string, error) {
	var location models.InventLocation
	err := r.conn(ctx).
		Select("rfc_guid").
		Where("invent_location_id = ?", strings.TrimSpace(inventLocationID)).
		First(&location).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return location.RFCGUID, nil
}

// ItemNames maps nomenclature codes to display names. Unknown codes are absent.
func (r *Repository) ItemNames(ctx context.Context, codes []string) (map[string]string, error) {
	unique := uniqueNonEmpty(codes)
	out := make(map[string]string, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	var rows []models.Nomenclature
	if err := r.conn(ctx).Select("code", "name").Where("code IN ?", unique).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Code] = row.Name
	}
	return out, nil
}

func (r *Repository) InventLocationExists(ctx context.Context, inventLocationID string) (bool, error) {
	return r.exists(ctx, &models.InventLocation{}, "invent_location_id = ?", inventLocationID)
}

func (r *Repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	return r.exists(ctx, &models.Employee{}, "employee_id = ?", employeeID)
}

func (r *Repository) exists(ctx context.Context, model any, query string, value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}
	var count int64
	if err := r.conn(ctx).Model(model).Where(query, value).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
