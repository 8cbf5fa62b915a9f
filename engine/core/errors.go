package core

import (
	"errors"
)

var (
	ErrMisconfiguredPass = errors.New("render pass is missing required materials or conversion")
	ErrInvalidConversion = errors.New("material conversion returned an unusable pass index")
	ErrUnsupportedCamera = errors.New("camera type does not run render features")
	ErrEffectExists      = errors.New("effect already registered")
	ErrUnknownEffect     = errors.New("unknown effect")
	ErrTargetLimit       = errors.New("render target pool is full")
	ErrInvalidDescriptor = errors.New("invalid render target descriptor")
	ErrUnknown           = errors.New("unknown")
)
