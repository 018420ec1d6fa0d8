package allocation

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// spreadSum mirrors how the invariant is stated: each term rounded on its own.
func spreadSum(a *Allocator, regime Regime) float64 {
	if regime == RegimePreRecovery {
		return math.Round(a.CompanyPrePct) + math.Round(a.CapitalDeductionPct) + math.Round(a.PartnerSum(regime))
	}
	return math.Round(a.CompanyPostPct) + math.Round(a.PartnerSum(regime))
}

func assertEqualShares(t *testing.T, a *Allocator) {
	t.Helper()
	require.NotEmpty(t, a.Partners)
	first := a.Partners[0]
	for _, p := range a.Partners[1:] {
		assert.InDelta(t, first.PrePct, p.PrePct, 0.05, "pre share of %s", p.PartnerID)
		assert.InDelta(t, first.PostPct, p.PostPct, 0.05, "post share of %s", p.PartnerID)
	}
}

func TestAllocator_EndToEndScenario(t *testing.T) {
	a := New(35, 30, 40)

	require.NoError(t, a.AddPartner("A"))
	require.Len(t, a.Partners, 1)
	assert.Equal(t, 35.0, a.Partners[0].PrePct)
	assert.Equal(t, 60.0, a.Partners[0].PostPct)

	require.NoError(t, a.AddPartner("B"))
	require.Len(t, a.Partners, 2)
	assert.Equal(t, 17.5, a.Partners[0].PrePct)
	assert.Equal(t, 17.5, a.Partners[1].PrePct)
	assert.Equal(t, 30.0, a.Partners[1].PostPct)

	a.RemovePartner("A")
	require.Len(t, a.Partners, 1)
	assert.Equal(t, "B", a.Partners[0].PartnerID)
	assert.Equal(t, 35.0, a.Partners[0].PrePct)
	assert.Equal(t, 60.0, a.Partners[0].PostPct)
}

func TestAllocator_SumInvariantAcrossOperations(t *testing.T) {
	a := New(35, 30, 40)

	steps := []struct {
		name string
		op   func() error
	}{
		{"add A", func() error { return a.AddPartner("A") }},
		{"add B", func() error { return a.AddPartner("B") }},
		{"add C", func() error { return a.AddPartner("C") }},
		{"company pre 20", func() error { a.SetCompanyPrePct(20); return nil }},
		{"deduction 45", func() error { a.SetCapitalDeductionPct(45); return nil }},
		{"company post 10", func() error { a.SetCompanyPostPct(10); return nil }},
		{"add D", func() error { return a.AddPartner("D") }},
		{"add E", func() error { return a.AddPartner("E") }},
		{"add F", func() error { return a.AddPartner("F") }},
		{"remove C", func() error { a.RemovePartner("C"); return nil }},
		{"company pre 150", func() error { a.SetCompanyPrePct(150); return nil }},
		{"deduction -5", func() error { a.SetCapitalDeductionPct(-5); return nil }},
		{"company post 33.3", func() error { a.SetCompanyPostPct(33.3); return nil }},
		{"remove A", func() error { a.RemovePartner("A"); return nil }},
	}

	for _, step := range steps {
		require.NoError(t, step.op(), step.name)
		assert.Equal(t, 100.0, spreadSum(a, RegimePreRecovery), "pre sum after %s", step.name)
		assert.Equal(t, 100.0, spreadSum(a, RegimePostRecovery), "post sum after %s", step.name)
		assert.NoError(t, a.Validate(), "validate after %s", step.name)
	}
}

func TestAllocator_EqualRedistribution(t *testing.T) {
	t.Run("add resets every partner to the same share", func(t *testing.T) {
		a := New(10, 20, 25)
		for i := 0; i < 6; i++ {
			require.NoError(t, a.AddPartner(fmt.Sprintf("p%d", i)))
			assertEqualShares(t, a)
		}
		assert.Equal(t, 11.7, a.Partners[0].PrePct)
		assert.Equal(t, 12.5, a.Partners[0].PostPct)
	})

	t.Run("remove resets survivors to the same share", func(t *testing.T) {
		a := New(10, 20, 25)
		for _, id := range []string{"a", "b", "c", "d"} {
			require.NoError(t, a.AddPartner(id))
		}
		a.RemovePartner("b")
		assertEqualShares(t, a)
		assert.Equal(t, 23.3, a.Partners[0].PrePct)
		assert.Equal(t, 25.0, a.Partners[0].PostPct)
	})

	t.Run("prior unequal weighting is not restored", func(t *testing.T) {
		a := New(20, 30, 20)
		require.NoError(t, a.AddPartner("a"))
		require.NoError(t, a.AddPartner("b"))
		a.Partners[0].PrePct = 40
		a.Partners[1].PrePct = 10

		require.NoError(t, a.AddPartner("c"))
		a.RemovePartner("c")

		assert.Equal(t, 25.0, a.Partners[0].PrePct)
		assert.Equal(t, 25.0, a.Partners[1].PrePct)
	})
}

func TestAllocator_Clamping(t *testing.T) {
	tests := []struct {
		name          string
		set           func(a *Allocator)
		wantCompany   float64
		wantDeduction float64
		wantPost      float64
	}{
		{"company pre capped by deduction", func(a *Allocator) { a.SetCompanyPrePct(150) }, 70, 30, 40},
		{"company pre floored at zero", func(a *Allocator) { a.SetCompanyPrePct(-10) }, 0, 30, 40},
		{"deduction capped by company", func(a *Allocator) { a.SetCapitalDeductionPct(90) }, 35, 65, 40},
		{"deduction floored at zero", func(a *Allocator) { a.SetCapitalDeductionPct(-1) }, 35, 0, 40},
		{"company post capped at 100", func(a *Allocator) { a.SetCompanyPostPct(101) }, 35, 30, 100},
		{"company post floored at zero", func(a *Allocator) { a.SetCompanyPostPct(-3) }, 35, 30, 0},
		{"NaN coerces to zero", func(a *Allocator) { a.SetCompanyPrePct(math.NaN()) }, 0, 30, 40},
		{"Inf coerces to zero", func(a *Allocator) { a.SetCompanyPostPct(math.Inf(1)) }, 35, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(35, 30, 40)
			require.NoError(t, a.AddPartner("A"))

			tt.set(a)

			assert.Equal(t, tt.wantCompany, a.CompanyPrePct)
			assert.Equal(t, tt.wantDeduction, a.CapitalDeductionPct)
			assert.Equal(t, tt.wantPost, a.CompanyPostPct)
			assert.GreaterOrEqual(t, a.Partners[0].PrePct, 0.0)
			assert.GreaterOrEqual(t, a.Partners[0].PostPct, 0.0)
		})
	}
}

func TestAllocator_KnobsWithoutPartners(t *testing.T) {
	a := New(35, 30, 40)
	a.SetCompanyPrePct(50)
	a.SetCompanyPostPct(50)

	assert.Empty(t, a.Partners)
	assert.Equal(t, 50.0, a.CompanyPrePct)
	assert.ErrorIs(t, a.Validate(), ErrNoPartners)
}

func TestAllocator_DuplicatePartner(t *testing.T) {
	a := New(35, 30, 40)
	require.NoError(t, a.AddPartner("A"))
	before := a.Clone()

	err := a.AddPartner("A")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicatePartner)
	var dupErr *DuplicatePartnerError
	require.True(t, errors.As(err, &dupErr))
	assert.Equal(t, "A", dupErr.PartnerID)
	assert.Equal(t, before, a)
}

func TestAllocator_RemoveLastAndUnknownPartner(t *testing.T) {
	a := New(35, 30, 40)
	require.NoError(t, a.AddPartner("A"))

	a.RemovePartner("missing")
	assert.Len(t, a.Partners, 1)

	a.RemovePartner("A")
	assert.Empty(t, a.Partners)
	assert.Equal(t, 35.0, a.CompanyPrePct)
}

func TestAllocator_AddPartnerWithOverallocatedKnobs(t *testing.T) {
	a := &Allocator{CompanyPrePct: 80, CapitalDeductionPct: 40, CompanyPostPct: 100}

	require.NoError(t, a.AddPartner("A"))

	assert.Equal(t, 0.0, a.Partners[0].PrePct)
	assert.Equal(t, 0.0, a.Partners[0].PostPct)
}

func TestAllocator_Validation(t *testing.T) {
	t.Run("no partners", func(t *testing.T) {
		a := New(100, 0, 100)
		err := a.Validate()
		assert.ErrorIs(t, err, ErrNoPartners)
	})

	t.Run("unbalanced pre regime reports the sum", func(t *testing.T) {
		a := New(35, 30, 40)
		require.NoError(t, a.AddPartner("A"))
		a.Partners[0].PrePct = 20

		err := a.Validate()

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnbalancedRegime)
		var unbalanced *UnbalancedRegimeError
		require.True(t, errors.As(err, &unbalanced))
		assert.Equal(t, RegimePreRecovery, unbalanced.Regime)
		assert.Equal(t, 85.0, unbalanced.Sum)
	})

	t.Run("unbalanced post regime", func(t *testing.T) {
		a := New(35, 30, 40)
		require.NoError(t, a.AddPartner("A"))
		a.Partners[0].PostPct = 70

		var unbalanced *UnbalancedRegimeError
		require.True(t, errors.As(a.Validate(), &unbalanced))
		assert.Equal(t, RegimePostRecovery, unbalanced.Regime)
		assert.Equal(t, 110.0, unbalanced.Sum)
	})

	t.Run("rounding to whole percent is tolerated", func(t *testing.T) {
		a := New(0, 0, 0)
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, a.AddPartner(id))
		}
		assert.Equal(t, 33.3, a.Partners[0].PrePct)
		assert.NoError(t, a.Validate())
	})
}

func TestAllocator_Idempotent(t *testing.T) {
	a := New(35, 30, 40)
	require.NoError(t, a.AddPartner("A"))
	require.NoError(t, a.AddPartner("B"))

	a.SetCompanyPrePct(25)
	first := a.Clone()
	a.SetCompanyPrePct(25)

	assert.Equal(t, first, a)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"12.5", 12.5, true},
		{" 40 ", 40, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"NaN", 0, false},
		{"1,5", 0, false},
		{"1e400", 0, false},
		{"-1e400", 0, false},
		{"1e3", 1000, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseNumber(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}
