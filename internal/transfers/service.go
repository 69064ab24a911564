package transfers

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/angelmondragon/uniforms-backend/pkg/db/models"
	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	"github.com/angelmondragon/uniforms-backend/pkg/erp"
	pkgerrors "github.com/angelmondragon/uniforms-backend/pkg/errors"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
)

type erpClient interface {
	JournalTable(ctx context.Context, req erp.JournalTableRequest) ([]erp.JournalTableRow, error)
	JournalDetails(ctx context.Context, req erp.JournalDetailsRequest) (*erp.JournalDetails, error)
	ByFRP(ctx context.Context, req erp.ByFRPRequest) ([]erp.ByFRPRow, error)
	JournalCreate(ctx context.Context, req erp.JournalCreateRequest) (string, error)
	JournalUpdate(ctx context.Context, req erp.JournalUpdateRequest) (*erp.Response, error)
	JournalDelete(ctx context.Context, req erp.JournalRequest) (*erp.Response, error)
	JournalPost(ctx context.Context, req erp.JournalRequest) (*erp.Response, error)
}

type directoryRepository interface {
	FindEmployee(ctx context.Context, employeeID string) (*models.Employee, error)
	EmployeesByIDs(ctx context.Context, ids []string) (map[string]models.Employee, error)
	DepartmentGUID(ctx context.Context, inventLocationID string) (string, error)
	ItemNames(ctx context.Context, codes []string) (map[string]string, error)
}

// Service orchestrates uniform journal operations against the ERP.
type Service interface {
	List(ctx context.Context, caller Caller, inventLocationID string, transferType enums.TransferType, from, to time.Time) ([]Record, error)
	Details(ctx context.Context, caller Caller, inventLocationID string, transferType enums.TransferType, id string) (*Details, error)
	Create(ctx context.Context, caller Caller, req CreateRequest) (string, error)
	Update(ctx context.Context, caller Caller, req UpdateRequest, id string) (bool, error)
	Delete(ctx context.Context, caller Caller, inventLocationID string, transferType enums.TransferType, id string) (bool, error)
	Post(ctx context.Context, caller Caller, inventLocationID string, transferType enums.TransferType, id string) (bool, error)
	CreateLine(ctx context.Context, caller Caller, req LineRequest) (bool, error)
	UpdateLine(ctx context.Context, caller Caller, req LineRequest, lineNum int) (bool, error)
	DeleteLine(ctx context.Context, caller Caller, id string, lineNum int) (bool, error)
}

type service struct {
	client    erpClient
	directory directoryRepository
	logg      *logger.Logger
}

// NewService builds the transfer service from its ERP client and directory lookups.
func NewService(client erpClient, directory directoryRepository, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("erp client required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{client: client, directory: directory, logg: logg}, nil
}

type erpIdentity struct {
	workerGUID     string
	departmentGUID string
}

// identity resolves the caller's worker GUID and the location's department
// GUID. Unknown employees and locations resolve to empty strings.
func (s *service) identity(ctx context.Context, caller Caller, inventLocationID string) (erpIdentity, error) {
	var id erpIdentity

	employee, err := s.directory.FindEmployee(ctx, caller.EmployeeID)
	if err != nil {
		return id, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve caller employee")
	}
	if employee != nil {
		id.workerGUID = employee.EmployeeGUID
	}

	id.departmentGUID, err = s.directory.DepartmentGUID(ctx, inventLocationID)
	if err != nil {
		return id, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve department guid")
	}
	return id, nil
}

func (s *service) List(ctx context.Context, caller Caller, inventLocationID string, transferType enums.TransferType, from, to time.Time) ([]Record, error) {
	id, err := s.identity(ctx, caller, inventLocationID)
	if err != nil {
		return nil, err
	}

	rows, err := s.client.JournalTable(ctx, erp.JournalTableRequest{
		WorkerGUID:       id.workerGUID,
		DepartmentGUID:   id.departmentGUID,
		InventLocationID: inventLocationID,
		JournalsType:     transferType,
		FromDate:         erp.FormatDate(from),
		ToDate:           erp.FormatDate(to),
	})
	if err != nil {
		return nil, pkgerrors.WrapRemote(pkgerrors.CodeUniformGetList, err)
	}

	employeeIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		employeeIDs = append(employeeIDs, row.Employee)
	}
	employees, err := s.directory.EmployeesByIDs(ctx, employeeIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load journal employees")
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		var employee *models.Employee
		if e, ok := employees[row.Employee]; ok {
			employee = &e
		}
		records = append(records, mapRecord(row, employee, transferType))
	}
	return records, nil
}

func (s *service) Details(ctx context.Context, caller Caller, inventLocationID string, transferType enums.TransferType, journalID string) (*Details, error) {
	id, err := s.identity(ctx, caller, inventLocationID)
	if err != nil {
		return nil, err
	}

	details, err := s.client.JournalDetails(ctx, erp.JournalDetailsRequest{
		WorkerGUID:     id.workerGUID,
		DepartmentGUID: id.departmentGUID,
		JournalID:      journalID,
		JournalsType:   transferType,
	})
	if err != nil {
		return nil, pkgerrors.WrapRemote(pkgerrors.CodeUniformGetDetails, err)
	}

	frp, err := s.client.ByFRP(ctx, erp.ByFRPRequest{
		WorkerGUID:       id.workerGUID,
		DepartmentGUID:   id.departmentGUID,
		Employee:         details.Employee,
		InventLocationID: inventLocationID,
	})
	if err != nil {
		return nil, pkgerrors.WrapRemote(pkgerrors.CodeUniformByFRP, err)
	}

	employee, err := s.directory.FindEmployee(ctx, details.Employee)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load journal employee")
	}
	itemNames, err := s.directory.ItemNames(ctx, lineItemIDs(details))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load item names")
	}

	return mapDetails(details, frp, employee, itemNames, inventLocationID, transferType), nil
}

func (s *service) Create(ctx context.Context, caller Caller, req CreateRequest) (string, error) {
	id, err := s.identity(ctx, caller, req.InventLocationID)
	if err != nil {
		return "", err
	}

	journalID, err := s.client.JournalCreate(ctx, erp.JournalCreateRequest{
		WorkerGUID:       id.workerGUID,
		DepartmentGUID:   id.departmentGUID,
		InventLocationID: req.InventLocationID,
		Employee:         req.EmployeeID,
		JournalsType:     req.Type,
		TransDate:        erp.FormatDate(req.Date),
		Lines:            createLines(req.Lines),
	})
	if err != nil {
		return "", pkgerrors.WrapRemote(pkgerrors.CodeUniformCreateItem, err)
	}
	return journalID, nil
}

func (s *service) Update(ctx context.Context, caller Caller, req UpdateRequest, journalID string) (bool, error) {
	id, err := s.identity(ctx, caller, req.InventLocationID)
	if err != nil {
		return false, err
	}

	resp, err := s.client.JournalUpdate(ctx, erp.JournalUpdateRequest{
		WorkerGUID:     id.workerGUID,
		DepartmentGUID: id.departmentGUID,
		JournalID:      journalID,
		Employee:       req.EmployeeID,
		JournalsType:   req.Type,
		Lines:          updateLines(req.Lines),
	})
	if err != nil {
		return false, pkgerrors.WrapRemote(pkgerrors.CodeUniformUpdateItem, err)
	}
	return !resp.Failed(), nil
}

func (s *service) Delete(ctx context.Context, caller Caller, inventLocationID string, transferType enums.TransferType, journalID string) (bool, error) {
	id, err := s.identity(ctx, caller, inventLocationID)
	if err != nil {
		return false, err
	}

	resp, err := s.client.JournalDelete(ctx, erp.JournalRequest{
		WorkerGUID:     id.workerGUID,
		DepartmentGUID: id.departmentGUID,
		JournalID:      journalID,
		JournalsType:   transferType,
	})
	if err != nil {
		return false, pkgerrors.WrapRemote(pkgerrors.CodeUniformDeleteItem, err)
	}
	return !resp.Failed(), nil
}

func (s *service) Post(ctx context.Context, caller Caller, inventLocationID string, transferType enums.TransferType, journalID string) (bool, error) {
	id, err := s.identity(ctx, caller, inventLocationID)
	if err != nil {
		return false, err
	}

	resp, err := s.client.JournalPost(ctx, erp.JournalRequest{
		WorkerGUID:     id.workerGUID,
		DepartmentGUID: id.departmentGUID,
		JournalID:      journalID,
		JournalsType:   transferType,
	})
	if err != nil {
		return false, pkgerrors.WrapRemote(pkgerrors.CodeUniformPostItem, err)
	}
	return !resp.Failed(), nil
}

// The ERP exposes no line-level operations yet, so the line methods accept
// the request and report success without a remote call.

func (s *service) CreateLine(ctx context.Context, caller Caller, req LineRequest) (bool, error) {
	s.logLineNoop(ctx, caller, "create", req.TransferID, 0)
	return true, nil
}

func (s *service) UpdateLine(ctx context.Context, caller Caller, req LineRequest, lineNum int) (bool, error) {
	s.logLineNoop(ctx, caller, "update", req.TransferID, lineNum)
	return true, nil
}

func (s *service) DeleteLine(ctx context.Context, caller Caller, journalID string, lineNum int) (bool, error) {
	s.logLineNoop(ctx, caller, "delete", journalID, lineNum)
	return true, nil
}

func (s *service) logLineNoop(ctx context.Context, caller Caller, action, journalID string, lineNum int) {
	ctx = s.logg.WithTransferID(ctx, journalID)
	fields := map[string]any{"line_action": action, "employee_id": caller.EmployeeID}
	if lineNum > 0 {
		fields["line_num"] = strconv.Itoa(lineNum)
	}
	ctx = s.logg.WithFields(ctx, fields)
	s.logg.Info(ctx, "transfer line request accepted without erp call")
}
