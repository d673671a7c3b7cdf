package lowdata

import "sort"

// Chunk is one command descriptor: a flat mapping of caller-defined
// fields submitted to the runner as a unit. The gateway passes fields
// through without interpreting them.
type Chunk map[string]any

// Batch is an ordered sequence of chunks decoded from a single request
// body. Chunks run in order and their results are returned in the same
// order.
type Batch []Chunk

// Decode converts a decoded body mapping into an ordered command batch.
//
// List-valued fields drive the expansion: they must all have the same
// length N, and the batch gets exactly N chunks with the i-th chunk
// taking the i-th element of every list. Scalar fields are broadcast
// into every chunk unchanged. A list that runs out before N, or a nil
// value in any position, aborts the whole decode with a *PairingError:
// partial chunks are never produced.
//
// Body decoders normalise repeated values to []any, so that is the only
// list shape recognised here. Keys are iterated in sorted order to keep
// chunk construction and error reporting deterministic.
func Decode(fields map[string]any) (Batch, error) {
	if len(fields) == 0 {
		return Batch{}, nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	scalars := make(map[string]any)
	lists := make(map[string][]any)
	for _, k := range keys {
		switch v := fields[k].(type) {
		case []any:
			lists[k] = v
		default:
			if v == nil {
				return nil, &PairingError{Position: 0, Missing: []string{k}}
			}
			scalars[k] = v
		}
	}

	n := 1
	if len(lists) > 0 {
		n = 0
		for _, l := range lists {
			if len(l) > n {
				n = len(l)
			}
		}
	}

	batch := make(Batch, 0, n)
	for i := 0; i < n; i++ {
		chunk := make(Chunk, len(fields))
		var missing []string
		for _, k := range keys {
			if l, ok := lists[k]; ok {
				if i >= len(l) || l[i] == nil {
					missing = append(missing, k)
					continue
				}
				chunk[k] = l[i]
				continue
			}
			chunk[k] = scalars[k]
		}
		if len(missing) > 0 {
			return nil, &PairingError{Position: i, Missing: missing}
		}
		batch = append(batch, chunk)
	}

	return batch, nil
}
