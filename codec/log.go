package codec

import "github.com/op/go-logging"

var log = logging.MustGetLogger("worldpack/codec")
