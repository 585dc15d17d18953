// Main executable for bloomset.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	bloom "github.com/bloomset/bloomset/pkg/bloom"
)

// Start the filter REPL, optionally preloading a word list.
func main() {
	wordsFlag := flag.String("words", "", "Word list to preload, one word per line")
	capacityFlag := flag.Int64("capacity", 400, "Initial capacity of the first filter")
	errorFlag := flag.Float64("error", 0.001, "Target false-positive rate")
	factorFlag := flag.Float64("factor", 2, "Growth factor")
	expFlag := flag.Bool("exponential", false, "Grow exponentially instead of linearly")
	cFlag := flag.Bool("c", false, "Whether to print prompt")
	flag.Parse()

	mode := bloom.ScaleModeLinear
	if *expFlag {
		mode = bloom.ScaleModeExponential
	}
	sf, err := bloom.NewScalableFilter(*capacityFlag, *errorFlag, *factorFlag, mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if *wordsFlag != "" {
		if err := preload(sf, *wordsFlag); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	myREPL := bloom.FilterRepl(sf)
	myREPL.Run(nil, uuid.New(), getPrompt(*cFlag))
}

// preload adds every non-empty line of the given file to the filter.
func preload(sf *bloom.ScalableFilter, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		word := scanner.Text()
		if word == "" {
			continue
		}
		if err := sf.Add([]byte(word)); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// Get the REPL prompt.
func getPrompt(c bool) string {
	if c {
		return "bloomset> "
	}
	return ""
}
