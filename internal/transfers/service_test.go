package transfers

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/uniforms-backend/pkg/db/models"
	"github.com/angelmondragon/uniforms-backend/pkg/enums"
	"github.com/angelmondragon/uniforms-backend/pkg/erp"
	pkgerrors "github.com/angelmondragon/uniforms-backend/pkg/errors"
	"github.com/angelmondragon/uniforms-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

type stubERP struct {
	calls []string

	tableRows []erp.JournalTableRow
	tableReq  erp.JournalTableRequest
	details   *erp.JournalDetails
	frpRows   []erp.ByFRPRow
	frpReq    erp.ByFRPRequest
	createID  string
	createReq erp.JournalCreateRequest
	updateReq erp.JournalUpdateRequest
	response  *erp.Response
	failOn    map[string]error
}

func (s *stubERP) fail(op string) error {
	s.calls = append(s.calls, op)
	if s.failOn == nil {
		return nil
	}
	return s.failOn[op]
}

func (s *stubERP) resp() *erp.Response {
	if s.response != nil {
		return s.response
	}
	return &erp.Response{}
}

func (s *stubERP) JournalTable(ctx context.Context, req erp.JournalTableRequest) ([]erp.JournalTableRow, error) {
	s.tableReq = req
	if err := s.fail(erp.OpJournalTable); err != nil {
		return nil, err
	}
	return s.tableRows, nil
}

func (s *stubERP) JournalDetails(ctx context.Context, req erp.JournalDetailsRequest) (*erp.JournalDetails, error) {
	if err := s.fail(erp.OpJournalDetails); err != nil {
		return nil, err
	}
	if s.details == nil {
		return &erp.JournalDetails{JournalID: req.JournalID}, nil
	}
	return s.details, nil
}

func (s *stubERP) ByFRP(ctx context.Context, req erp.ByFRPRequest) ([]erp.ByFRPRow, error) {
	s.frpReq = req
	if err := s.fail(erp.OpByFRP); err != nil {
		return nil, err
	}
	return s.frpRows, nil
}

func (s *stubERP) JournalCreate(ctx context.Context, req erp.JournalCreateRequest) (string, error) {
	s.createReq = req
	if err := s.fail(erp.OpJournalCreate); err != nil {
		return "", err
	}
	return s.createID, nil
}

func (s *stubERP) JournalUpdate(ctx context.Context, req erp.JournalUpdateRequest) (*erp.Response, error) {
	s.updateReq = req
	if err := s.fail(erp.OpJournalUpdate); err != nil {
		return nil, err
	}
	return s.resp(), nil
}

func (s *stubERP) JournalDelete(ctx context.Context, req erp.JournalRequest) (*erp.Response, error) {
	if err := s.fail(erp.OpJournalDelete); err != nil {
		return nil, err
	}
	return s.resp(), nil
}

func (s *stubERP) JournalPost(ctx context.Context, req erp.JournalRequest) (*erp.Response, error) {
	if err := s.fail(erp.OpJournalPost); err != nil {
		return nil, err
	}
	return s.resp(), nil
}

type stubDirectory struct {
	employees   map[string]models.Employee
	departments map[string]string
	items       map[string]string
	err         error
	batchCalls  int
}

func (s *stubDirectory) FindEmployee(ctx context.Context, employeeID string) (*models.Employee, error) {
	if s.err != nil {
		return nil, s.err
	}
	if e, ok := s.employees[employeeID]; ok {
		return &e, nil
	}
	return nil, nil
}

func (s *stubDirectory) EmployeesByIDs(ctx context.Context, ids []string) (map[string]models.Employee, error) {
	s.batchCalls++
	out := map[string]models.Employee{}
	for _, id := range ids {
		if e, ok := s.employees[id]; ok {
			out[id] = e
		}
	}
	return out, nil
}

func (s *stubDirectory) DepartmentGUID(ctx context.Context, inventLocationID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.departments[inventLocationID], nil
}

func (s *stubDirectory) ItemNames(ctx context.Context, codes []string) (map[string]string, error) {
	out := map[string]string{}
	for _, code := range codes {
		if name, ok := s.items[code]; ok {
			out[code] = name
		}
	}
	return out, nil
}

var testCaller = Caller{EmployeeID: "E-CALLER"}

func newTestDirectory() *stubDirectory {
	return &stubDirectory{
		employees: map[string]models.Employee{
			"E-CALLER": {EmployeeID: "E-CALLER", EmployeeGUID: "caller-guid", FirstName: "Olga", LastName: "Smirnova"},
			"E-1":      {EmployeeID: "E-1", EmployeeGUID: "guid-1", FirstName: "Ivan", LastName: "Petrov"},
		},
		departments: map[string]string{"WH-1": "dept-guid"},
		items:       map[string]string{"SHIRT": "Work shirt"},
	}
}

func newTestService(t *testing.T, client *stubERP, dir *stubDirectory) Service {
	t.Helper()
	svc, err := NewService(client, dir, logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}}))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	logg := logger.New(logger.Options{Output: &bytes.Buffer{}})
	if _, err := NewService(nil, newTestDirectory(), logg); err == nil {
		t.Fatal("expected missing erp client to fail")
	}
	if _, err := NewService(&stubERP{}, nil, logg); err == nil {
		t.Fatal("expected missing directory to fail")
	}
	if _, err := NewService(&stubERP{}, newTestDirectory(), nil); err == nil {
		t.Fatal("expected missing logger to fail")
	}
}

func TestListMapsRowsAndEmployees(t *testing.T) {
	client := &stubERP{tableRows: []erp.JournalTableRow{
		{Employee: "E-1", JournalID: "J-1", LocationID: "WH-1", Posted: "Yes", TransDate: "2024-03-02T00:00:00"},
		{Employee: "E-404", JournalID: "J-2", LocationID: "WH-1", Posted: "yes", TransDate: "2024-03-01T00:00:00"},
	}}
	dir := newTestDirectory()
	svc := newTestService(t, client, dir)

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	records, err := svc.List(context.Background(), testCaller, "WH-1", enums.TransferTypeIssuance, from, to)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if client.tableReq.WorkerGUID != "caller-guid" || client.tableReq.DepartmentGUID != "dept-guid" {
		t.Fatalf("unexpected identity in request %+v", client.tableReq)
	}
	if client.tableReq.FromDate != "2024-03-01T00:00:00" || client.tableReq.ToDate != "2024-03-31T00:00:00" {
		t.Fatalf("unexpected date range %s..%s", client.tableReq.FromDate, client.tableReq.ToDate)
	}
	if dir.batchCalls != 1 {
		t.Fatalf("expected a single batched employee lookup, got %d", dir.batchCalls)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.ID != "J-1" || first.EmployeeGUID != "guid-1" || first.EmployeeFullName != "Ivan Petrov" {
		t.Fatalf("unexpected first record %+v", first)
	}
	if !first.Posted {
		t.Fatal("expected exact Yes flag to mark the journal posted")
	}
	if first.Type != enums.TransferTypeIssuance {
		t.Fatalf("expected requested type on record, got %s", first.Type)
	}

	second := records[1]
	if second.Posted {
		t.Fatal("expected non-exact flag to leave the journal unposted")
	}
	if second.EmployeeID != "" || second.FirstName != "" || second.LastName != "" || second.EmployeeGUID != "" {
		t.Fatalf("expected empty employee fields, got %+v", second)
	}
	if second.EmployeeFullName != " " {
		t.Fatalf("expected single space full name, got %q", second.EmployeeFullName)
	}
}

func TestListUnknownCallerAndLocationUseEmptyGUIDs(t *testing.T) {
	client := &stubERP{}
	svc := newTestService(t, client, newTestDirectory())

	if _, err := svc.List(context.Background(), Caller{EmployeeID: "nobody"}, "WH-9", enums.TransferTypeReturn, time.Now(), time.Now()); err != nil {
		t.Fatalf("list: %v", err)
	}
	if client.tableReq.WorkerGUID != "" || client.tableReq.DepartmentGUID != "" {
		t.Fatalf("expected empty guids, got %+v", client.tableReq)
	}
}

func TestDetailsAvailableQuantity(t *testing.T) {
	details := &erp.JournalDetails{
		JournalID: "J-7",
		Employee:  "E-1",
		TransDate: "2024-03-05T00:00:00",
		Posted:    "No",
		Items: erp.JournalDetailsItems{UniformJournalDetails: []erp.JournalDetailsLine{
			{LineNum: 1, ItemID: "SHIRT", Condition: enums.UniformConditionNew, Qty: dec("2"), AvailableQtyNew: dec("10"), AvailableQtyUsed: dec("3")},
			{LineNum: 2, ItemID: "BOOTS", Condition: enums.UniformConditionUsed, Qty: dec("1"), AvailableQtyNew: dec("8"), AvailableQtyUsed: dec("4.5")},
			{LineNum: 3, ItemID: "HAT", Condition: enums.UniformConditionUsed, Qty: dec("1")},
		}},
	}
	frp := []erp.ByFRPRow{
		{ItemID: "SHIRT", Condition: enums.UniformConditionUsed, Qty: dec("1")},
		{ItemID: "SHIRT", Condition: enums.UniformConditionNew, Qty: dec("6")},
		{ItemID: "BOOTS", Condition: enums.UniformConditionNew, Qty: dec("2")},
	}

	cases := []struct {
		name         string
		transferType enums.TransferType
		want         []string
	}{
		{name: "issuance uses condition stock", transferType: enums.TransferTypeIssuance, want: []string{"10", "4.5", "0"}},
		{name: "write-off uses condition stock", transferType: enums.TransferTypeWriteOff, want: []string{"10", "4.5", "0"}},
		{name: "return uses frp quantity", transferType: enums.TransferTypeReturn, want: []string{"6", "2", "0"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &stubERP{details: details, frpRows: frp}
			svc := newTestService(t, client, newTestDirectory())

			got, err := svc.Details(context.Background(), testCaller, "WH-1", tc.transferType, "J-7")
			if err != nil {
				t.Fatalf("details: %v", err)
			}
			if client.frpReq.Employee != "E-1" || client.frpReq.InventLocationID != "WH-1" {
				t.Fatalf("unexpected frp request %+v", client.frpReq)
			}
			if len(got.Lines) != len(tc.want) {
				t.Fatalf("expected %d lines, got %d", len(tc.want), len(got.Lines))
			}
			for i, want := range tc.want {
				if !got.Lines[i].AvailableQuantity.Equal(dec(want)) {
					t.Fatalf("line %d: expected available %s, got %s", i, want, got.Lines[i].AvailableQuantity)
				}
			}
		})
	}
}

func TestDetailsEnrichesHeaderAndItemNames(t *testing.T) {
	client := &stubERP{details: &erp.JournalDetails{
		JournalID: "J-7",
		Employee:  "E-1",
		TransDate: "2024-03-05T00:00:00",
		Posted:    "Yes",
		Items: erp.JournalDetailsItems{UniformJournalDetails: []erp.JournalDetailsLine{
			{LineNum: 4, ItemID: "SHIRT", Condition: enums.UniformConditionNew, Qty: dec("2"), ReasonReturn: "torn"},
			{LineNum: 5, ItemID: "UNKNOWN", Condition: enums.UniformConditionNew, Qty: dec("1")},
		}},
	}}
	svc := newTestService(t, client, newTestDirectory())

	got, err := svc.Details(context.Background(), testCaller, "WH-1", enums.TransferTypeIssuance, "J-7")
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if got.ID != "J-7" || !got.Posted || got.InventLocationID != "WH-1" || got.Date != "2024-03-05T00:00:00" {
		t.Fatalf("unexpected header %+v", got)
	}
	if got.EmployeeFullName != "Ivan Petrov" || got.EmployeeGUID != "guid-1" {
		t.Fatalf("unexpected employee fields %+v", got)
	}
	if got.Lines[0].ItemName != "Work shirt" || got.Lines[0].LineNum != 4 || got.Lines[0].Reason != "torn" {
		t.Fatalf("unexpected first line %+v", got.Lines[0])
	}
	if got.Lines[1].ItemName != "" {
		t.Fatalf("expected empty name for unknown item, got %q", got.Lines[1].ItemName)
	}
}

func TestCreateMapsLinesVerbatim(t *testing.T) {
	client := &stubERP{createID: "J-100"}
	svc := newTestService(t, client, newTestDirectory())

	req := CreateRequest{
		InventLocationID: "WH-1",
		Date:             time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		EmployeeID:       "E-1",
		Type:             enums.TransferTypeReturn,
		Lines: []CreateLine{
			{ItemID: "SHIRT", Condition: enums.UniformConditionUsed, Quantity: dec("1.25"), Reason: "torn"},
			{ItemID: "BOOTS", Condition: enums.UniformConditionNew, Quantity: dec("0"), Reason: "size"},
		},
	}

	id, err := svc.Create(context.Background(), testCaller, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id != "J-100" {
		t.Fatalf("unexpected id %q", id)
	}

	sent := client.createReq
	if sent.Employee != "E-1" || sent.InventLocationID != "WH-1" || sent.JournalsType != enums.TransferTypeReturn {
		t.Fatalf("unexpected header %+v", sent)
	}
	if sent.TransDate != "2024-04-01T00:00:00" {
		t.Fatalf("unexpected trans date %q", sent.TransDate)
	}
	if sent.WorkerGUID != "caller-guid" || sent.DepartmentGUID != "dept-guid" {
		t.Fatalf("unexpected guids %+v", sent)
	}
	if len(sent.Lines) != len(req.Lines) {
		t.Fatalf("expected %d lines, got %d", len(req.Lines), len(sent.Lines))
	}
	for i, line := range req.Lines {
		got := sent.Lines[i]
		if got.ItemID != line.ItemID || got.Condition != line.Condition || !got.Qty.Equal(line.Quantity) || got.ReasonReturn != line.Reason {
			t.Fatalf("line %d not mapped verbatim: %+v vs %+v", i, got, line)
		}
	}
}

func TestUpdateMapsActionAndLineNum(t *testing.T) {
	client := &stubERP{}
	svc := newTestService(t, client, newTestDirectory())

	req := UpdateRequest{
		InventLocationID: "WH-1",
		EmployeeID:       "E-1",
		Type:             enums.TransferTypeIssuance,
		Lines: []UpdateLine{
			{Action: enums.LineActionUpdate, ItemID: "SHIRT", LineNum: 3, Condition: enums.UniformConditionNew, Quantity: dec("2")},
			{Action: enums.LineActionDelete, LineNum: 4, Condition: enums.UniformConditionUsed, Quantity: dec("0")},
		},
	}

	ok, err := svc.Update(context.Background(), testCaller, req, "J-5")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !ok {
		t.Fatal("expected unflagged response to report success")
	}
	if client.updateReq.JournalID != "J-5" || client.updateReq.Employee != "E-1" {
		t.Fatalf("unexpected header %+v", client.updateReq)
	}
	for i, line := range req.Lines {
		got := client.updateReq.Lines[i]
		if got.Action != line.Action || got.LineNum != line.LineNum || got.ItemID != line.ItemID ||
			got.Condition != line.Condition || !got.Qty.Equal(line.Quantity) || got.ReasonReturn != line.Reason {
			t.Fatalf("line %d not mapped verbatim: %+v vs %+v", i, got, line)
		}
	}
}

func TestCommandsReportFlaggedResponses(t *testing.T) {
	client := &stubERP{response: &erp.Response{IsError: true}}
	svc := newTestService(t, client, newTestDirectory())
	ctx := context.Background()

	if ok, err := svc.Update(ctx, testCaller, UpdateRequest{InventLocationID: "WH-1"}, "J-1"); err != nil || ok {
		t.Fatalf("update: expected false without error, got %v %v", ok, err)
	}
	if ok, err := svc.Delete(ctx, testCaller, "WH-1", enums.TransferTypeIssuance, "J-1"); err != nil || ok {
		t.Fatalf("delete: expected false without error, got %v %v", ok, err)
	}
	if ok, err := svc.Post(ctx, testCaller, "WH-1", enums.TransferTypeIssuance, "J-1"); err != nil || ok {
		t.Fatalf("post: expected false without error, got %v %v", ok, err)
	}
}

func TestERPFailuresSurfaceAsDistinctCodes(t *testing.T) {
	transportErr := &erp.Error{Op: "any", Message: "connection reset"}
	ctx := context.Background()

	cases := []struct {
		name string
		op   string
		code pkgerrors.Code
		call func(Service) error
	}{
		{name: "list", op: erp.OpJournalTable, code: pkgerrors.CodeUniformGetList, call: func(s Service) error {
			_, err := s.List(ctx, testCaller, "WH-1", enums.TransferTypeIssuance, time.Now(), time.Now())
			return err
		}},
		{name: "details", op: erp.OpJournalDetails, code: pkgerrors.CodeUniformGetDetails, call: func(s Service) error {
			_, err := s.Details(ctx, testCaller, "WH-1", enums.TransferTypeIssuance, "J-1")
			return err
		}},
		{name: "by frp", op: erp.OpByFRP, code: pkgerrors.CodeUniformByFRP, call: func(s Service) error {
			_, err := s.Details(ctx, testCaller, "WH-1", enums.TransferTypeReturn, "J-1")
			return err
		}},
		{name: "create", op: erp.OpJournalCreate, code: pkgerrors.CodeUniformCreateItem, call: func(s Service) error {
			_, err := s.Create(ctx, testCaller, CreateRequest{InventLocationID: "WH-1"})
			return err
		}},
		{name: "update", op: erp.OpJournalUpdate, code: pkgerrors.CodeUniformUpdateItem, call: func(s Service) error {
			_, err := s.Update(ctx, testCaller, UpdateRequest{InventLocationID: "WH-1"}, "J-1")
			return err
		}},
		{name: "delete", op: erp.OpJournalDelete, code: pkgerrors.CodeUniformDeleteItem, call: func(s Service) error {
			_, err := s.Delete(ctx, testCaller, "WH-1", enums.TransferTypeIssuance, "J-1")
			return err
		}},
		{name: "post", op: erp.OpJournalPost, code: pkgerrors.CodeUniformPostItem, call: func(s Service) error {
			_, err := s.Post(ctx, testCaller, "WH-1", enums.TransferTypeIssuance, "J-1")
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &stubERP{failOn: map[string]error{tc.op: transportErr}}
			err := tc.call(newTestService(t, client, newTestDirectory()))
			if err == nil {
				t.Fatal("expected error")
			}
			if !pkgerrors.HasCode(err, tc.code) {
				t.Fatalf("expected code %s, got %v", tc.code, err)
			}
			var erpErr *erp.Error
			if !errors.As(err, &erpErr) {
				t.Fatalf("expected erp error in chain, got %v", err)
			}
			if msg := pkgerrors.As(err).Message(); !bytes.Contains([]byte(msg), []byte("connection reset")) {
				t.Fatalf("expected original message to be preserved, got %q", msg)
			}
		})
	}
}

func TestDetailsStopsAfterFirstFailure(t *testing.T) {
	client := &stubERP{failOn: map[string]error{erp.OpJournalDetails: errors.New("boom")}}
	svc := newTestService(t, client, newTestDirectory())

	if _, err := svc.Details(context.Background(), testCaller, "WH-1", enums.TransferTypeReturn, "J-1"); err == nil {
		t.Fatal("expected error")
	}
	if len(client.calls) != 1 {
		t.Fatalf("expected only the details call, got %v", client.calls)
	}
}

func TestDirectoryFailureIsDependencyError(t *testing.T) {
	client := &stubERP{}
	dir := newTestDirectory()
	dir.err = errors.New("db down")
	svc := newTestService(t, client, dir)

	_, err := svc.Delete(context.Background(), testCaller, "WH-1", enums.TransferTypeIssuance, "J-1")
	if !pkgerrors.HasCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no erp calls, got %v", client.calls)
	}
}

func TestLineOperationsAreNoops(t *testing.T) {
	client := &stubERP{}
	svc := newTestService(t, client, newTestDirectory())
	ctx := context.Background()
	line := LineRequest{TransferID: "J-1", ItemID: "SHIRT", Condition: enums.UniformConditionNew, Quantity: dec("1"), Reason: "x"}

	if ok, err := svc.CreateLine(ctx, testCaller, line); err != nil || !ok {
		t.Fatalf("create line: %v %v", ok, err)
	}
	if ok, err := svc.UpdateLine(ctx, testCaller, line, 2); err != nil || !ok {
		t.Fatalf("update line: %v %v", ok, err)
	}
	if ok, err := svc.DeleteLine(ctx, testCaller, "J-1", 2); err != nil || !ok {
		t.Fatalf("delete line: %v %v", ok, err)
	}
	if len(client.calls) != 0 {
		t.Fatalf("expected no erp calls, got %v", client.calls)
	}
}
