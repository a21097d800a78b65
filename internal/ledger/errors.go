package ledger

import "errors"

var ErrCreatorNotFound = errors.New("creator not found")
