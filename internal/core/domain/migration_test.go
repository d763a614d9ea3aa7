package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationState_IsTerminal(t *testing.T) {
	assert.False(t, StateNotMigrated.IsTerminal())
	assert.False(t, StateMigrating.IsTerminal())
	assert.True(t, StateSkipped.IsTerminal())
	assert.True(t, StateMigrated.IsTerminal())
	assert.True(t, StateFailed.IsTerminal())
}

func TestMigrationOptions(t *testing.T) {
	opts := DefaultMigrationOptions()
	assert.True(t, opts.BackupOriginal)
	assert.False(t, opts.DryRun)
	assert.True(t, opts.Includes("any/op/key"))

	opts.Operations = []string{"s/c/o"}
	assert.True(t, opts.Includes("s/c/o"))
	assert.False(t, opts.Includes("s/c/other"))
}

func TestMigrationResult_AddError(t *testing.T) {
	result := &MigrationResult{Success: true}
	result.Operations = []OperationMigration{
		{ServiceID: "s", CapabilityID: "c", OperationID: "a", State: StateMigrated},
		{ServiceID: "s", CapabilityID: "c", OperationID: "b", State: StateFailed},
	}

	result.AddError(&MigrationError{ServiceID: "s", OperationID: "b", Err: ErrWriteFailure})

	assert.False(t, result.Success)
	assert.Len(t, result.Errors, 1)
	assert.Equal(t, []string{"s/c/b"}, result.FailedOperations())
}

func TestUseCasePageMapping_PageContent(t *testing.T) {
	withPage := UseCasePageMapping{Page: &Document{CleanContent: "page"}, SynthesizedPage: "template"}
	assert.Equal(t, "page", withPage.PageContent())

	synthesized := UseCasePageMapping{SynthesizedPage: "template"}
	assert.Equal(t, "template", synthesized.PageContent())
}
