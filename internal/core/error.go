package core

import (
	"errors"
	"fmt"
)

var (
	ErrElementUndefined     = errors.New("custom element is not defined")
	ErrUnknownRemote        = errors.New("unknown remote")
	ErrExposedModuleMissing = errors.New("exposed module not found in remote entry")
	ErrMountPointMissing    = errors.New("mount point not found")
)

type ScriptLoadError struct {
	ScriptURL string
	Err       error
}

func (e *ScriptLoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("failed to load script: %s", e.ScriptURL)
	}
	return fmt.Sprintf("failed to load script: %s: %v", e.ScriptURL, e.Err)
}

func (e *ScriptLoadError) Unwrap() error { return e.Err }

// ElementConstructionError means the code behind an element ran (or was
// presumed to have run) but the tag never got registered.
type ElementConstructionError struct {
	ElementName string
	Source      string
	Err         error
}

func (e *ElementConstructionError) Error() string {
	msg := fmt.Sprintf("failed to create element %s after %s was loaded", e.ElementName, e.Source)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ElementConstructionError) Unwrap() error { return e.Err }

type RemoteResolutionError struct {
	RemoteName    string
	ExposedModule string
	ElementName   string
	Err           error
}

func (e *RemoteResolutionError) Error() string {
	msg := fmt.Sprintf("failed to load federated component %s from %s (%s)", e.ElementName, e.RemoteName, e.ExposedModule)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RemoteResolutionError) Unwrap() error { return e.Err }

type RouteNotFoundError struct {
	Path string
}

func (e *RouteNotFoundError) Error() string {
	return fmt.Sprintf("no route defined for path: %s", e.Path)
}

type ConfigurationError struct {
	Path   string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Path == "" {
		return "invalid route configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid route configuration for path %s: %s", e.Path, e.Reason)
}
