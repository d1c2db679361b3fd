package compliance

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/compliance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_CalculateAll(t *testing.T) {
	r := NewDefaultRegistry(config.DefaultComplianceConfig())

	result, err := r.CalculateAll(dec("21000"), dec("12000"))
	require.NoError(t, err)

	assert.True(t, dec("1800").Equal(result.Amount(compliance.TypePF)))
	assert.True(t, dec("157.5").Equal(result.Amount(compliance.TypeESI)))
	assert.True(t, dec("100").Equal(result.Amount(compliance.TypePT)))
	assert.True(t, result.Amount(compliance.TypeTDS).IsZero())
}

func TestRegistry_ZeroGrossYieldsZeroDeductions(t *testing.T) {
	r := NewDefaultRegistry(config.DefaultComplianceConfig())

	result, err := r.CalculateAll(dec("0"), dec("0"))
	require.NoError(t, err)
	for _, typ := range compliance.AllTypes {
		assert.True(t, result.Amount(typ).IsZero(), "%s should be zero", typ)
	}
}

func TestRegistry_UnknownType(t *testing.T) {
	r := NewDefaultRegistry(config.DefaultComplianceConfig())

	_, err := r.Get("LWF")
	assert.True(t, errors.Is(err, compliance.ErrUnsupportedComplianceType))

	_, err = r.Calculate([]compliance.Type{compliance.TypePF, "LWF"}, dec("10000"), dec("5000"))
	assert.True(t, errors.Is(err, compliance.ErrUnsupportedComplianceType))
}

func TestRegistry_EmptyRegistry(t *testing.T) {
	_, err := NewRegistry().CalculateAll(dec("10000"), dec("5000"))
	assert.True(t, errors.Is(err, compliance.ErrUnsupportedComplianceType))
}
