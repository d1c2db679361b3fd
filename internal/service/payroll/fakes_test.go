package payroll

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	attendanceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/attendance"
	complianceService "github.com/cmlabs-hris/payroll-backend-go/internal/service/compliance"
	salaryService "github.com/cmlabs-hris/payroll-backend-go/internal/service/salary"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Employee and run ids are UUIDs because the engine rejects anything else.
const (
	testEmployeeID      = "01890a5d-ac96-7000-8000-000000000001"
	secondEmployeeID    = "01890a5d-ac96-7000-8000-000000000002"
	weekendEmployeeID   = "01890a5d-ac96-7000-8000-000000000003"
	storeDownEmployeeID = "01890a5d-ac96-7000-8000-000000000004"
	invalidEmployeeID   = "01890a5d-ac96-7000-8000-000000000005"
	okEmployeeID        = "01890a5d-ac96-7000-8000-000000000006"
	missingEmployeeID   = "01890a5d-ac96-7000-8000-000000000007"
	halfEmployeeID      = "01890a5d-ac96-7000-8000-000000000008"
	fullEmployeeID      = "01890a5d-ac96-7000-8000-000000000009"
	unknownRunID        = "01890a5d-ac96-7000-8000-0000000000ff"
	otherRunID          = "01890a5d-ac96-7000-8000-0000000000fe"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var fixedNow = time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)

// serialTx runs transactions one at a time, which is what row locks give the
// real store for a single period key.
type serialTx struct {
	mu sync.Mutex
}

func (t *serialTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

type mockStructureRepo struct {
	mock.Mock
}

func (m *mockStructureRepo) GetActiveByEmployeeID(ctx context.Context, employeeID string) (salary.SalaryStructure, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(salary.SalaryStructure), args.Error(1)
}

func (m *mockStructureRepo) GetByID(ctx context.Context, id string) (salary.SalaryStructure, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(salary.SalaryStructure), args.Error(1)
}

func (m *mockStructureRepo) ListEmployeesWithActiveStructure(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type mockAttendanceRepo struct {
	mock.Mock
}

func (m *mockAttendanceRepo) GetAttendanceRecords(ctx context.Context, employeeID string, dateRange attendance.DateRange) ([]attendance.Record, error) {
	args := m.Called(ctx, employeeID, dateRange)
	return args.Get(0).([]attendance.Record), args.Error(1)
}

type memoryComplianceRepo struct {
	mu      sync.Mutex
	records []compliance.Record
}

func (r *memoryComplianceRepo) SaveRecords(ctx context.Context, records []compliance.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, records...)
	return nil
}

// memoryPayrollRepo enforces the (employee, month, year) uniqueness of the
// real table.
type memoryPayrollRepo struct {
	mu        sync.Mutex
	runs      map[string]payroll.PayrollRun
	createErr error
}

func newMemoryPayrollRepo() *memoryPayrollRepo {
	return &memoryPayrollRepo{runs: make(map[string]payroll.PayrollRun)}
}

func (r *memoryPayrollRepo) Create(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return payroll.PayrollRun{}, r.createErr
	}
	for _, existing := range r.runs {
		if existing.EmployeeID == run.EmployeeID && existing.PeriodMonth == run.PeriodMonth && existing.PeriodYear == run.PeriodYear {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunConflict
		}
	}
	run.ID = uuid.NewString()
	run.CreatedAt = fixedNow
	run.UpdatedAt = fixedNow
	items := make([]payroll.LineItem, len(run.Components))
	for i, item := range run.Components {
		item.ID = uuid.NewString()
		item.PayrollRunID = run.ID
		items[i] = item
	}
	run.Components = items
	r.runs[run.ID] = run
	return run, nil
}

func (r *memoryPayrollRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[id]; !ok {
		return payroll.ErrPayrollRunNotFound
	}
	delete(r.runs, id)
	return nil
}

func (r *memoryPayrollRepo) GetByID(ctx context.Context, id string) (payroll.PayrollRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
	}
	return run, nil
}

func (r *memoryPayrollRepo) GetByIDForUpdate(ctx context.Context, id string) (payroll.PayrollRun, error) {
	return r.GetByID(ctx, id)
}

func (r *memoryPayrollRepo) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, run := range r.runs {
		if run.EmployeeID == employeeID && run.PeriodMonth == month && run.PeriodYear == year {
			return run, nil
		}
	}
	return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
}

func (r *memoryPayrollRepo) GetByEmployeePeriodForUpdate(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRun, error) {
	return r.GetByEmployeePeriod(ctx, employeeID, month, year)
}

func (r *memoryPayrollRepo) UpdateStatus(ctx context.Context, update payroll.StatusUpdate) (payroll.PayrollRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[update.ID]
	if !ok {
		return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
	}
	allowed := false
	for _, from := range update.From {
		if run.Status == from {
			allowed = true
		}
	}
	if !allowed {
		return payroll.PayrollRun{}, payroll.ErrPayrollStatusChanged
	}
	at := update.At
	run.Status = update.To
	switch update.To {
	case payroll.PayrollStatusLocked:
		run.LockedAt = &at
	case payroll.PayrollStatusRejected:
		run.RejectedAt = &at
		run.RejectionReason = update.RejectionReason
	}
	run.UpdatedAt = at
	r.runs[run.ID] = run
	run.Components = nil
	return run, nil
}

func (r *memoryPayrollRepo) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRun, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.PayrollRun
	for _, run := range r.runs {
		if filter.EmployeeID != nil && run.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && string(run.Status) != *filter.Status {
			continue
		}
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, int64(len(out)), nil
}

func (r *memoryPayrollRepo) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	summary := payroll.PayrollSummaryResponse{PeriodMonth: month, PeriodYear: year}
	for _, run := range r.runs {
		if run.PeriodMonth != month || run.PeriodYear != year {
			continue
		}
		summary.TotalEmployees++
		summary.TotalNetSalary = summary.TotalNetSalary.Add(run.NetSalary)
	}
	return summary, nil
}

func (r *memoryPayrollRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.runs)
}

// testStructure is the reference structure: basic 30000, HRA 9000, DA 5000
// and a 1000 loan deduction.
func testStructure(employeeID string) salary.SalaryStructure {
	return salary.SalaryStructure{
		ID:            "structure-" + employeeID,
		EmployeeID:    employeeID,
		BasicSalary:   dec("30000"),
		CTC:           dec("600000"),
		EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:        true,
		Components: []salary.SalaryComponent{
			{Name: "HRA", Kind: salary.ComponentKindEarning, CalcMethod: salary.CalcMethodPercentage, Value: dec("30"), Position: 0},
			{Name: "DA", Kind: salary.ComponentKindEarning, CalcMethod: salary.CalcMethodFixed, Value: dec("5000"), Position: 1},
			{Name: "Loan", Kind: salary.ComponentKindDeduction, CalcMethod: salary.CalcMethodFixed, Value: dec("1000"), Position: 2},
			{Name: "Internet", Kind: salary.ComponentKindReimbursement, CalcMethod: salary.CalcMethodFixed, Value: dec("500"), Position: 3},
		},
	}
}

// aprilWeekdays are the 22 working days of April 2024.
func aprilWeekdays() []time.Time {
	var days []time.Time
	for d := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC); d.Month() == time.April; d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days = append(days, d)
		}
	}
	return days
}

// presentRecords marks the first n April weekdays present and the rest absent.
func presentRecords(employeeID string, n int) []attendance.Record {
	var records []attendance.Record
	for i, d := range aprilWeekdays() {
		status := attendance.StatusAbsent
		if i < n {
			status = attendance.StatusPresent
		}
		records = append(records, attendance.Record{EmployeeID: employeeID, Date: d, Status: status})
	}
	return records
}

func defaultEngine() Engine {
	cfg := config.DefaultComplianceConfig()
	return Engine{
		Aggregator: salaryService.NewAggregator(salaryService.NewEvaluator(zap.NewNop(), nil)),
		Registry:   complianceService.NewDefaultRegistry(cfg),
		Prorator:   attendanceService.NewProrator(nil),
	}
}

type testEnv struct {
	service        payroll.PayrollService
	payrollRepo    *memoryPayrollRepo
	structureRepo  *mockStructureRepo
	attendanceRepo *mockAttendanceRepo
	complianceRepo *memoryComplianceRepo
}

func newTestEnv(engine Engine) *testEnv {
	env := &testEnv{
		payrollRepo:    newMemoryPayrollRepo(),
		structureRepo:  new(mockStructureRepo),
		attendanceRepo: new(mockAttendanceRepo),
		complianceRepo: &memoryComplianceRepo{},
	}
	env.service = NewPayrollService(
		&serialTx{},
		env.payrollRepo,
		env.structureRepo,
		env.attendanceRepo,
		env.complianceRepo,
		engine,
		Options{Workers: 4, Logger: zap.NewNop(), Now: func() time.Time { return fixedNow }},
	)
	return env
}

// withEmployee registers an employee with the reference structure and n
// present days in April 2024.
func (e *testEnv) withEmployee(employeeID string, presentDays int) {
	e.structureRepo.On("GetActiveByEmployeeID", mock.Anything, employeeID).Return(testStructure(employeeID), nil)
	e.attendanceRepo.On("GetAttendanceRecords", mock.Anything, employeeID, attendance.MonthRange(4, 2024)).
		Return(presentRecords(employeeID, presentDays), nil)
}
