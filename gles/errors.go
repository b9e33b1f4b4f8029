package gles

import (
	"fmt"

	"github.com/go-gl/gl/v3.1/gles2"
	log "github.com/sirupsen/logrus"
)

var errorNames = map[uint32]string{
	gles2.INVALID_ENUM:                  "GL_INVALID_ENUM",
	gles2.INVALID_VALUE:                 "GL_INVALID_VALUE",
	gles2.INVALID_OPERATION:             "GL_INVALID_OPERATION",
	gles2.INVALID_FRAMEBUFFER_OPERATION: "GL_INVALID_FRAMEBUFFER_OPERATION",
	gles2.OUT_OF_MEMORY:                 "GL_OUT_OF_MEMORY",
}

func errorName(code uint32) string {
	if name, ok := errorNames[code]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", code)
}

// CheckError drains the GL error queue and forwards every error to
// logger. It returns the first error found, tagged with op.
func CheckError(logger log.FieldLogger, op string) error {
	var first error
	for code := gles2.GetError(); code != gles2.NO_ERROR; code = gles2.GetError() {
		logger.WithFields(log.Fields{
			"op":    op,
			"error": errorName(code),
		}).Warn("gl error")
		if first == nil {
			first = fmt.Errorf("%s: %s", op, errorName(code))
		}
	}
	return first
}
