// This tool decompresses a packed asset blob, given its codec name.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/pkosel/embuf/buffer"
	"github.com/pkosel/embuf/codec"
)

func main() {
	if len(os.Args) < 3 {
		log.Fatal("usage: decompress <codec> <file>")
	}
	c, err := codec.ParseCodec(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	filePath := os.Args[2]

	data, err := os.ReadFile(filePath)
	if err != nil {
		log.Fatalf("reading input: %s", err)
	}
	env, err := codec.NewCompressed(buffer.NewView(data), c)
	if err != nil {
		log.Fatal(err)
	}

	// the blob does not carry its decompressed size, so grow on demand
	dst := make([]byte, 4*len(data)+1024)
	for {
		n, err := env.DecodeInto(dst)
		if errors.Is(err, codec.ErrOutOfMemory) {
			dst = make([]byte, 2*len(dst))
			continue
		}
		if err != nil {
			log.Fatal(err)
		}

		output := filePath + ".decoded"
		err = os.WriteFile(output, dst[:n], 0o644)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Written in", output)
		return
	}
}
