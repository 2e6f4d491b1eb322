//go:build !linux

package seqio

import "os"

func adviseSequential(*os.File) {}
