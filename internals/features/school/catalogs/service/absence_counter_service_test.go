package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	model "catalogscolar_backend/internals/features/school/catalogs/model"
)

func assertCounterInvariants(t *testing.T, cat *model.SubjectCatalogModel) {
	t.Helper()
	assert.Equal(t, cat.SubjectCatalogAbsCountSem1+cat.SubjectCatalogAbsCountSem2, cat.SubjectCatalogAbsCountAnnual)
	assert.Equal(t, cat.SubjectCatalogFoundedAbsCountSem1+cat.SubjectCatalogFoundedAbsCountSem2, cat.SubjectCatalogFoundedAbsCountAnnual)
	assert.Equal(t, cat.SubjectCatalogUnfoundedAbsCountSem1+cat.SubjectCatalogUnfoundedAbsCountSem2, cat.SubjectCatalogUnfoundedAbsCountAnnual)

	assert.Equal(t, cat.SubjectCatalogAbsCountSem1, cat.SubjectCatalogFoundedAbsCountSem1+cat.SubjectCatalogUnfoundedAbsCountSem1)
	assert.Equal(t, cat.SubjectCatalogAbsCountSem2, cat.SubjectCatalogFoundedAbsCountSem2+cat.SubjectCatalogUnfoundedAbsCountSem2)
	assert.Equal(t, cat.SubjectCatalogAbsCountAnnual, cat.SubjectCatalogFoundedAbsCountAnnual+cat.SubjectCatalogUnfoundedAbsCountAnnual)

	for _, v := range []int{
		cat.SubjectCatalogAbsCountSem1, cat.SubjectCatalogAbsCountSem2, cat.SubjectCatalogAbsCountAnnual,
		cat.SubjectCatalogFoundedAbsCountSem1, cat.SubjectCatalogFoundedAbsCountSem2, cat.SubjectCatalogFoundedAbsCountAnnual,
		cat.SubjectCatalogUnfoundedAbsCountSem1, cat.SubjectCatalogUnfoundedAbsCountSem2, cat.SubjectCatalogUnfoundedAbsCountAnnual,
	} {
		assert.GreaterOrEqual(t, v, 0)
	}
}

func TestAbsenceCounters_AddAuthorizeDelete(t *testing.T) {
	cat := &model.SubjectCatalogModel{}

	ApplyAddDelta(cat, 1, false)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 1, cat.SubjectCatalogUnfoundedAbsCountSem1)

	ApplyAddDelta(cat, 2, false)
	ApplyAddDelta(cat, 2, false)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 3, cat.SubjectCatalogAbsCountAnnual)

	ApplyAuthorizeDelta(cat, 2)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 1, cat.SubjectCatalogFoundedAbsCountSem2)
	assert.Equal(t, 1, cat.SubjectCatalogUnfoundedAbsCountSem2)
	// Totals untouched by authorization.
	assert.Equal(t, 3, cat.SubjectCatalogAbsCountAnnual)

	ApplyDeleteDelta(cat, 2, true)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 0, cat.SubjectCatalogFoundedAbsCountSem2)
	assert.Equal(t, 2, cat.SubjectCatalogAbsCountAnnual)

	ApplyDeleteDelta(cat, 2, false)
	ApplyDeleteDelta(cat, 1, false)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 0, cat.SubjectCatalogAbsCountAnnual)
}

func TestAbsenceCounters_DeleteFloorsAtZero(t *testing.T) {
	cat := &model.SubjectCatalogModel{}

	ApplyDeleteDelta(cat, 1, false)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 0, cat.SubjectCatalogAbsCountSem1)
	assert.Equal(t, 0, cat.SubjectCatalogUnfoundedAbsCountAnnual)
}

func TestAbsenceCounters_FoundedAdd(t *testing.T) {
	cat := &model.SubjectCatalogModel{}

	ApplyAddDelta(cat, 1, true)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 1, cat.SubjectCatalogFoundedAbsCountSem1)
	assert.Equal(t, 0, cat.SubjectCatalogUnfoundedAbsCountSem1)
}

func TestAbsenceCounters_BulkAdd(t *testing.T) {
	cat := &model.SubjectCatalogModel{}

	ApplyBulkAddDelta(cat, 1, 5)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 5, cat.SubjectCatalogAbsCountSem1)
	assert.Equal(t, 5, cat.SubjectCatalogUnfoundedAbsCountAnnual)

	ApplyBulkAddDelta(cat, 2, 2)
	assertCounterInvariants(t, cat)
	assert.Equal(t, 7, cat.SubjectCatalogAbsCountAnnual)
}

func TestAbsenceCounters_RandomSequenceKeepsInvariants(t *testing.T) {
	cat := &model.SubjectCatalogModel{}
	unfounded := map[int]int{1: 0, 2: 0}
	founded := map[int]int{1: 0, 2: 0}

	ops := []struct {
		kind string
		sem  int
	}{
		{"add", 1}, {"add", 1}, {"add", 2}, {"auth", 1}, {"add", 2},
		{"del-unf", 2}, {"auth", 2}, {"del-fnd", 2}, {"add", 1}, {"del-unf", 1},
	}
	for _, op := range ops {
		switch op.kind {
		case "add":
			ApplyAddDelta(cat, op.sem, false)
			unfounded[op.sem]++
		case "auth":
			if unfounded[op.sem] > 0 {
				ApplyAuthorizeDelta(cat, op.sem)
				unfounded[op.sem]--
				founded[op.sem]++
			}
		case "del-unf":
			if unfounded[op.sem] > 0 {
				ApplyDeleteDelta(cat, op.sem, false)
				unfounded[op.sem]--
			}
		case "del-fnd":
			if founded[op.sem] > 0 {
				ApplyDeleteDelta(cat, op.sem, true)
				founded[op.sem]--
			}
		}
		assertCounterInvariants(t, cat)
	}
	assert.Equal(t, unfounded[1]+founded[1], cat.SubjectCatalogAbsCountSem1)
	assert.Equal(t, unfounded[2]+founded[2], cat.SubjectCatalogAbsCountSem2)
}
