package bloom

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	hyperloglog "github.com/axiomhq/hyperloglog"
	btree "github.com/tidwall/btree"

	repl "github.com/bloomset/bloomset/pkg/repl"
)

// FilterRepl builds a REPL around a scalable filter. Alongside the
// filter it maintains an exact membership ledger and a HyperLogLog
// sketch, so estimates and observed false positives can be reported
// against ground truth.
func FilterRepl(sf *ScalableFilter) *repl.REPL {
	var ledger btree.Set[string]
	sketch := hyperloglog.New16()
	r := repl.NewRepl()
	r.AddCommand("bf_add", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: bf_add <word>")
		}
		if err := sf.Add([]byte(fields[1])); err != nil {
			return err
		}
		ledger.Insert(fields[1])
		sketch.Insert([]byte(fields[1]))
		return nil
	}, "Add a word to the filter. usage: bf_add <word>")
	r.AddCommand("bf_lookup", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: bf_lookup <word>")
		}
		if sf.Lookup([]byte(fields[1])) {
			io.WriteString(replConfig.GetWriter(), "possibly present\n")
		} else {
			io.WriteString(replConfig.GetWriter(), "definitely not present\n")
		}
		return nil
	}, "Check a word's membership. usage: bf_lookup <word>")
	r.AddCommand("bf_stats", func(payload string, replConfig *repl.REPLConfig) error {
		w := replConfig.GetWriter()
		for i, f := range sf.Filters() {
			io.WriteString(w, fmt.Sprintf("filter %d: size=%d hashes=%d elements=%d/%d error=%.6f\n",
				i, f.Size(), f.HashCount(), f.ElementCount(), f.Capacity(), f.EstimateErrorRate(false)))
		}
		return nil
	}, "Print size, hash count, fill, and error rate per filter. usage: bf_stats")
	r.AddCommand("bf_count", func(payload string, replConfig *repl.REPLConfig) error {
		estimated := int64(0)
		for _, f := range sf.Filters() {
			estimated += f.EstimateElementCount()
		}
		io.WriteString(replConfig.GetWriter(), fmt.Sprintf("added=%d estimated=%d hll=%d exact=%d\n",
			sf.ElementCount(), estimated, sketch.Estimate(), ledger.Len()))
		return nil
	}, "Compare element counts: added, bit-pattern estimate, hyperloglog, exact. usage: bf_count")
	r.AddCommand("bf_fp", func(payload string, replConfig *repl.REPLConfig) error {
		fields := strings.Fields(payload)
		if len(fields) != 2 {
			return errors.New("usage: bf_fp <probes>")
		}
		probes, err := strconv.Atoi(fields[1])
		if err != nil || probes <= 0 {
			return errors.New("usage: bf_fp <probes>")
		}
		positives := 0
		for i := 0; i < probes; i++ {
			candidate := fmt.Sprintf("__absent-%d__", i)
			if ledger.Contains(candidate) {
				continue
			}
			if sf.Lookup([]byte(candidate)) {
				positives++
			}
		}
		io.WriteString(replConfig.GetWriter(), fmt.Sprintf("false positives: %d/%d (%.6f)\n",
			positives, probes, float64(positives)/float64(probes)))
		return nil
	}, "Probe words that were never added and report the observed false-positive rate. usage: bf_fp <probes>")
	return r
}
