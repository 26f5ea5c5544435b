// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/noriah/thump/input/ffmpeg"
	_ "github.com/noriah/thump/input/stdinput"
	_ "github.com/noriah/thump/input/synthetic"
)
