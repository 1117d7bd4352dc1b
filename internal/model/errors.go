package model

import "errors"

var ErrAuditImmutable = errors.New("audit records are immutable")
