package salary

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/salary"
	"github.com/cmlabs-hris/payroll-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

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

func TestSalaryService_CalculateSalary(t *testing.T) {
	repo := new(mockStructureRepo)
	repo.On("GetByID", mock.Anything, "01890a5d-ac96-7000-8000-0000000000a1").Return(scenarioStructure(), nil)
	svc := NewSalaryService(repo, newTestAggregator())

	b, err := svc.CalculateSalary(context.Background(), salary.CalculateSalaryRequest{StructureID: "01890a5d-ac96-7000-8000-0000000000a1"})
	require.NoError(t, err)

	assert.True(t, dec("45400").Equal(b.GrossSalary))
	repo.AssertExpectations(t)
}

func TestSalaryService_CalculateSalary_Overrides(t *testing.T) {
	repo := new(mockStructureRepo)
	repo.On("GetByID", mock.Anything, "01890a5d-ac96-7000-8000-0000000000a1").Return(scenarioStructure(), nil)
	svc := NewSalaryService(repo, newTestAggregator())

	basic := dec("40000")
	da := dec("2000")
	b, err := svc.CalculateSalary(context.Background(), salary.CalculateSalaryRequest{
		StructureID: "01890a5d-ac96-7000-8000-0000000000a1",
		Overrides:   salary.ContextOverrides{BasicSalary: &basic, Dearness: &da},
	})
	require.NoError(t, err)

	// HRA 30% of 40000 = 12000, special = (12000 + 2000) * 0.1
	assert.True(t, dec("40000").Equal(b.BasicSalary))
	assert.True(t, dec("12000").Equal(b.Components["HRA"]))
	assert.True(t, dec("1400").Equal(b.Components["Special Allowance"]))
}

func TestSalaryService_CalculateSalary_Errors(t *testing.T) {
	repo := new(mockStructureRepo)
	repo.On("GetByID", mock.Anything, "01890a5d-ac96-7000-8000-0000000000ff").Return(salary.SalaryStructure{}, salary.ErrSalaryStructureNotFound)
	svc := NewSalaryService(repo, newTestAggregator())

	_, err := svc.CalculateSalary(context.Background(), salary.CalculateSalaryRequest{StructureID: "01890a5d-ac96-7000-8000-0000000000ff"})
	assert.True(t, errors.Is(err, salary.ErrSalaryStructureNotFound))

	_, err = svc.CalculateSalary(context.Background(), salary.CalculateSalaryRequest{})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	negative := dec("-1")
	_, err = svc.CalculateSalary(context.Background(), salary.CalculateSalaryRequest{
		StructureID: "01890a5d-ac96-7000-8000-0000000000a1",
		Overrides:   salary.ContextOverrides{HRA: &negative},
	})
	assert.True(t, errors.As(err, &verrs))
}
