// Package core holds what every example shares besides the shader
// pipeline itself: configuration, logging, frame timing and the
// discovery of shader sources in directories, packr boxes and kar
// archives.
package core
