// Package bigmodel implements the Dispatcher for the BigModel (GLM)
// chat completions API.
package bigmodel
