package execx

import (
	"context"
	"io/ioutil"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.Out = ioutil.Discard

	return logger
}

func TestExecRunner_Run(t *testing.T) {
	r := New(discardLogger())

	err := r.Run(context.Background(), "true")

	assert.Nil(t, err)
}

func TestExecRunner_Run_NonZeroExit(t *testing.T) {
	r := New(discardLogger())

	err := r.Run(context.Background(), "false")

	assert.NotNil(t, err)
	assert.Contains(t, err.Error(), "false")
}

func TestExecRunner_Run_MissingBinary(t *testing.T) {
	r := New(discardLogger())

	err := r.Run(context.Background(), "definitely-not-a-real-binary")

	assert.NotNil(t, err)
}

func TestExecRunner_Output(t *testing.T) {
	r := New(discardLogger())

	out, err := r.Output(context.Background(), "echo", "hello")

	assert.Nil(t, err)
	assert.Equal(t, "hello", strings.TrimSpace(string(out)))
}

func TestExecRunner_Output_Failure(t *testing.T) {
	r := New(discardLogger())

	out, err := r.Output(context.Background(), "false")

	assert.NotNil(t, err)
	assert.Nil(t, out)
}

func TestExecRunner_RunWithInput(t *testing.T) {
	r := New(discardLogger())

	err := r.RunWithInput(context.Background(), "hello\n", "grep", "-q", "hello")

	assert.Nil(t, err)
}

func TestExecRunner_RunWithInput_Failure(t *testing.T) {
	r := New(discardLogger())

	err := r.RunWithInput(context.Background(), "hello\n", "grep", "-q", "absent")

	assert.NotNil(t, err)
}
