package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_IncompatiblePairIsException(t *testing.T) {
	v := New(DefaultConfig())

	verdict := v.Validate(Input{
		AccountHolder: "RICHARD LIBUTTI",
		Company:       "HAPPY TRAILERS LLC",
	})

	assert.Equal(t, StatusException, verdict.Status)
	assert.NotEmpty(t, verdict.Note)
	assert.True(t, verdict.Blocked())
}

func TestValidate_ExceptionNotDowngradedByMarkerRule(t *testing.T) {
	// A company that would also trip the ALERT rule must stay EXCEPTION:
	// rules are priority ordered and never roll back.
	cfg := DefaultConfig()
	cfg.Incompatible = append(cfg.Incompatible, IncompatiblePair{
		AccountHolder: "RICHARD LIBUTTI",
		Company:       "RR REITER REALTY",
		Note:          "test pair",
	})
	v := New(cfg)

	verdict := v.Validate(Input{
		AccountHolder: "RICHARD LIBUTTI",
		Company:       "RR REITER REALTY", // no RAS marker either
	})

	assert.Equal(t, StatusException, verdict.Status)
}

func TestValidate_MissingMarkerIsAlert(t *testing.T) {
	v := New(DefaultConfig())

	verdict := v.Validate(Input{
		AccountHolder: "ARMANDO ARMAS",
		Company:       "RR REITER REALTY",
	})

	assert.Equal(t, StatusAlert, verdict.Status)
	assert.False(t, verdict.Blocked())
	assert.Contains(t, verdict.Note, "RR Reiter")
}

func TestValidate_MarkerInGLHintSatisfiesRequirement(t *testing.T) {
	v := New(DefaultConfig())

	verdict := v.Validate(Input{
		AccountHolder: "ARMANDO ARMAS",
		Company:       "RR REITER REALTY",
		GLHint:        "RAS repairs",
	})

	assert.Equal(t, StatusOK, verdict.Status)
}

func TestValidate_DefaultIsOK(t *testing.T) {
	v := New(DefaultConfig())

	verdict := v.Validate(Input{
		AccountHolder: "ARMANDO ARMAS",
		Company:       "RAS",
	})

	assert.Equal(t, StatusOK, verdict.Status)
	assert.Empty(t, verdict.Note)
}

func TestEligible_AlwaysEligibleHolder(t *testing.T) {
	v := New(DefaultConfig())

	// Armando is eligible regardless of company.
	assert.True(t, v.Eligible(Input{AccountHolder: "ARMANDO ARMAS", Company: "ANYTHING"}))
}

func TestEligible_MarkerRequiredHolders(t *testing.T) {
	v := New(DefaultConfig())

	assert.True(t, v.Eligible(Input{AccountHolder: "RICHARD LIBUTTI", Company: "RAS"}))
	assert.False(t, v.Eligible(Input{AccountHolder: "RICHARD LIBUTTI", Company: "OTHER CO"}))
	assert.True(t, v.Eligible(Input{AccountHolder: "CORY S REITER", GLHint: "RAS"}))
	assert.False(t, v.Eligible(Input{AccountHolder: "LINDSAY REITER", Company: ""}))
}

func TestEligible_UnlistedHolderNeedsMarker(t *testing.T) {
	v := New(DefaultConfig())

	assert.False(t, v.Eligible(Input{AccountHolder: "SOMEBODY ELSE", Company: "OTHER"}))
	// The company marker grants eligibility on its own.
	assert.True(t, v.Eligible(Input{AccountHolder: "SOMEBODY ELSE", Company: "RAS"}))
}

func TestValidate_CaseInsensitive(t *testing.T) {
	v := New(DefaultConfig())

	verdict := v.Validate(Input{
		AccountHolder: "richard libutti",
		Company:       "happy trailers",
	})

	assert.Equal(t, StatusException, verdict.Status)
}
