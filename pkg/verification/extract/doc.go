package extract

import (
	"bytes"
	"context"
	"os"
	"os/exec"

	"ai-verification-be/internal/pkg/logger"
)

// DocConverter shells out to antiword for legacy binary .doc files
type DocConverter struct {
	binary string
	logger logger.ILogger
}

func NewDocConverter(binary string, log logger.ILogger) *DocConverter {
	if binary == "" {
		binary = "antiword"
	}
	return &DocConverter{binary: binary, logger: log}
}

// Text returns the converted text, or "" when conversion fails for any reason
func (c *DocConverter) Text(ctx context.Context, data []byte) (string, error) {
	tmp, err := os.CreateTemp("", "contribution-*.doc")
	if err != nil {
		c.warn("create temp file", err)
		return "", nil
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		c.warn("write temp file", err)
		return "", nil
	}
	tmp.Close()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.binary, tmp.Name())
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		c.logger.Warn("EXTRACT", "antiword conversion failed", map[string]interface{}{
			"error":  err.Error(),
			"stderr": stderr.String(),
		})
		return "", nil
	}
	return stdout.String(), nil
}

func (c *DocConverter) warn(step string, err error) {
	c.logger.Warn("EXTRACT", "doc conversion failed: "+step, map[string]interface{}{"error": err.Error()})
}
