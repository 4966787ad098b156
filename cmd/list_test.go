package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"crucible.dev/pkg/crucible/internal/domain"
	domainmocks "crucible.dev/pkg/crucible/internal/domain/mocks"
	m "crucible.dev/pkg/crucible/internal/model"
)

func TestListCmd_ForwardsLanguageOverride(t *testing.T) {
	mockWorkflow := domainmocks.NewMockWorkflow(t)

	cmd := newRootCmd()
	configureRootFlags(cmd)
	cmd.AddCommand(newListCmd())
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	originalWorkflow := workflow
	workflow = mockWorkflow
	defer func() { workflow = originalWorkflow }()
	t.Cleanup(func() { viper.Set(languageConfigKey, defaultLanguage) })

	mockWorkflow.On("List", mock.Anything, mock.MatchedBy(func(args domain.RunArgs) bool {
		return args.RepoRoot == m.Path(".") && args.Language == m.LangC
	})).Return(nil)

	cmd.SetArgs([]string{"list", "--language", "c"})
	err := cmd.Execute()
	require.NoError(t, err)

	mockWorkflow.AssertExpectations(t)
}
