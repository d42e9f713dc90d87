/*
Copyright 2011-2026 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package app implements the zling command line: two subcommands, no
// flags, reading from stdin and writing to stdout when source/target
// are omitted.
package app

import (
	"fmt"
	"os"
	"time"

	zling "github.com/2ndxbridge/zling"
	zio "github.com/2ndxbridge/zling/io"
	"github.com/2ndxbridge/zling/internal"
)

// Run is the entry point called by cmd/zling's main(). It returns the
// process exit code; main() is expected to call os.Exit with it.
func Run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "zling: unexpected error: %v\n", r)
			code = zling.ERR_UNKNOWN
		}
	}()

	fmt.Fprintln(os.Stderr, "zling:")
	fmt.Fprintln(os.Stderr, "   light-weight lossless data compression utility")
	fmt.Fprintln(os.Stderr)

	if len(args) < 2 || (args[1] != "e" && args[1] != "d") {
		printUsage()
		return zling.ERR_MISSING_PARAM
	}

	if len(args) > 4 {
		printUsage()
		return zling.ERR_INVALID_PARAM
	}

	in, out, code := openStreams(args)
	if code != 0 {
		return code
	}

	defer in.Close()
	defer out.Close()

	internal.ResetTiming()
	start := time.Now()

	var sizeIn, sizeOut int64
	var err error

	if args[1] == "e" {
		sizeIn, sizeOut, err = compress(in, out)
	} else {
		sizeIn, sizeOut, err = decompress(in, out)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if ioErr, ok := err.(interface{ ErrorCode() int }); ok {
			return ioErr.ErrorCode()
		}
		return zling.ERR_PROCESS_BLOCK
	}

	printResult(sizeIn, sizeOut, args[1] == "e", time.Since(start))
	return 0
}

func openStreams(args []string) (in *os.File, out *os.File, code int) {
	in = os.Stdin
	out = os.Stdout

	if len(args) >= 3 {
		f, err := os.Open(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot open file '%s' for read.\n", args[2])
			return nil, nil, zling.ERR_OPEN_FILE
		}
		in = f
	}

	if len(args) >= 4 {
		f, err := os.Create(args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: cannot open file '%s' for write.\n", args[3])
			return nil, nil, zling.ERR_CREATE_FILE
		}
		out = f
	}

	return in, out, 0
}

func compress(in *os.File, out *os.File) (sizeIn, sizeOut int64, err error) {
	w, err := zio.NewWriter(out)
	if err != nil {
		return 0, 0, err
	}

	buf := make([]byte, zio.BlockSizeIn)

	for {
		n, rerr := in.Read(buf)

		if n > 0 {
			wn, werr := w.Write(buf[:n])
			sizeIn += int64(n)
			sizeOut += int64(wn)

			if werr != nil {
				return sizeIn, sizeOut, werr
			}
		}

		if rerr != nil {
			break
		}
	}

	if cerr := w.Close(); cerr != nil {
		return sizeIn, sizeOut, cerr
	}

	return sizeIn, sizeOut, nil
}

func decompress(in *os.File, out *os.File) (sizeIn, sizeOut int64, err error) {
	r, err := zio.NewReader(in)
	if err != nil {
		return 0, 0, err
	}

	buf := make([]byte, zio.BlockSizeIn)

	for {
		n, rerr := r.Read(buf)

		if n > 0 {
			wn, werr := out.Write(buf[:n])
			sizeOut += int64(n)
			sizeIn += int64(wn)

			if werr != nil {
				return sizeIn, sizeOut, werr
			}
		}

		if rerr != nil {
			break
		}
	}

	return sizeIn, sizeOut, nil
}

func printResult(sizeSrc, sizeDst int64, encode bool, elapsed time.Duration) {
	if encode {
		fmt.Fprintf(os.Stderr, "encode: %d => %d, time=%.3f sec\n", sizeSrc, sizeDst, elapsed.Seconds())
	} else {
		fmt.Fprintf(os.Stderr, "decode: %d <= %d, time=%.3f sec\n", sizeDst, sizeSrc, elapsed.Seconds())
	}

	t := internal.Snapshot()
	fmt.Fprintf(os.Stderr, "\ttime_rolz:  %.3f sec\n", t.ROLZTime.Seconds())
	fmt.Fprintf(os.Stderr, "\ttime_polar: %.3f sec\n", t.PolarTime.Seconds())
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage:")
	fmt.Fprintln(os.Stderr, "   zling e source target")
	fmt.Fprintln(os.Stderr, "   zling d source target")
	fmt.Fprintln(os.Stderr, "    * source: default to stdin")
	fmt.Fprintln(os.Stderr, "    * target: default to stdout")
}
