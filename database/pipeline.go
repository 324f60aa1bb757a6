package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/256dpi/lungo/bsonkit"
	"github.com/256dpi/lungo/mongokit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RunPipeline evaluates the aggregation stages the analytics reports
// issue: $match, $unwind on a top-level array, $group with $sum,
// $sort, $limit and an inclusion $project.
func RunPipeline(list bsonkit.List, pipeline mongo.Pipeline) (bsonkit.List, error) {
	out := list
	for i, raw := range pipeline {
		stage, err := toDoc(raw)
		if err != nil {
			return nil, err
		}
		if len(*stage) != 1 {
			return nil, fmt.Errorf("%w: stage %d must have exactly one operator", ErrUnsupported, i)
		}
		op, arg := (*stage)[0].Key, (*stage)[0].Value
		switch op {
		case "$match":
			out, err = matchStage(out, arg)
		case "$unwind":
			out, err = unwindStage(out, arg)
		case "$group":
			out, err = groupStage(out, arg)
		case "$sort":
			out, err = sortStage(out, arg)
		case "$limit":
			out, err = limitStage(out, arg)
		case "$project":
			out, err = projectStage(out, arg)
		default:
			err = fmt.Errorf("%w: stage %s", ErrUnsupported, op)
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func matchStage(list bsonkit.List, arg interface{}) (bsonkit.List, error) {
	query, ok := arg.(bson.D)
	if !ok {
		return nil, fmt.Errorf("%w: $match needs a document", ErrUnsupported)
	}
	out := make(bsonkit.List, 0, len(list))
	for _, doc := range list {
		ok, err := mongokit.Match(doc, &query)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// unwindStage emits one document per element of the array at path.
// Documents with a missing, null or empty array are dropped.
func unwindStage(list bsonkit.List, arg interface{}) (bsonkit.List, error) {
	path, _ := arg.(string)
	field := strings.TrimPrefix(path, "$")
	if !strings.HasPrefix(path, "$") || field == "" || strings.Contains(field, ".") {
		return nil, fmt.Errorf("%w: $unwind path %v", ErrUnsupported, arg)
	}

	var out bsonkit.List
	for _, doc := range list {
		idx := -1
		for i, e := range *doc {
			if e.Key == field {
				idx = i
				break
			}
		}
		if idx < 0 || (*doc)[idx].Value == nil {
			continue
		}
		arr, ok := (*doc)[idx].Value.(bson.A)
		if !ok {
			out = append(out, doc)
			continue
		}
		for _, el := range arr {
			c := make(bson.D, len(*doc))
			copy(c, *doc)
			c[idx].Value = el
			out = append(out, &c)
		}
	}
	return out, nil
}

type sum struct {
	ints    int64
	floats  float64
	isFloat bool
}

func (s *sum) add(v interface{}) {
	switch n := v.(type) {
	case int32:
		s.ints += int64(n)
	case int64:
		s.ints += n
	case float64:
		s.floats += n
		s.isFloat = true
	}
}

func (s *sum) result() interface{} {
	if s.isFloat {
		return s.floats + float64(s.ints)
	}
	return s.ints
}

type group struct {
	id   interface{}
	sums []*sum
}

func groupStage(list bsonkit.List, arg interface{}) (bsonkit.List, error) {
	fields, ok := arg.(bson.D)
	if !ok || len(fields) == 0 || fields[0].Key != "_id" {
		return nil, fmt.Errorf("%w: $group needs an _id expression first", ErrUnsupported)
	}
	idExpr := fields[0].Value
	accs := fields[1:]
	exprs := make([]interface{}, len(accs))
	for i, f := range accs {
		acc, ok := f.Value.(bson.D)
		if !ok || len(acc) != 1 || acc[0].Key != "$sum" {
			return nil, fmt.Errorf("%w: accumulator for %s", ErrUnsupported, f.Key)
		}
		exprs[i] = acc[0].Value
	}

	var groups []*group
	for _, doc := range list {
		id, err := evaluate(doc, idExpr)
		if err != nil {
			return nil, err
		}
		var g *group
		for _, candidate := range groups {
			if bsonkit.Compare(candidate.id, id) == 0 {
				g = candidate
				break
			}
		}
		if g == nil {
			g = &group{id: id, sums: make([]*sum, len(accs))}
			for i := range g.sums {
				g.sums[i] = &sum{}
			}
			groups = append(groups, g)
		}
		for i, expr := range exprs {
			v, err := evaluate(doc, expr)
			if err != nil {
				return nil, err
			}
			g.sums[i].add(v)
		}
	}

	out := make(bsonkit.List, 0, len(groups))
	for _, g := range groups {
		row := bson.D{{Key: "_id", Value: g.id}}
		for i, f := range accs {
			row = append(row, bson.E{Key: f.Key, Value: g.sums[i].result()})
		}
		out = append(out, &row)
	}
	return out, nil
}

func sortStage(list bsonkit.List, arg interface{}) (bsonkit.List, error) {
	order, ok := arg.(bson.D)
	if !ok {
		return nil, fmt.Errorf("%w: $sort needs a document", ErrUnsupported)
	}
	sorted, err := mongokit.Sort(list, &order)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return sorted, nil
}

func limitStage(list bsonkit.List, arg interface{}) (bsonkit.List, error) {
	var n int64
	switch v := arg.(type) {
	case int32:
		n = int64(v)
	case int64:
		n = v
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: $limit %v", ErrUnsupported, arg)
	}
	if n < int64(len(list)) {
		return list[:n], nil
	}
	return list, nil
}

// projectStage keeps fields marked 1 or true, renames fields given as
// "$path", and drops _id when it is set to 0 or false.
func projectStage(list bsonkit.List, arg interface{}) (bsonkit.List, error) {
	fields, ok := arg.(bson.D)
	if !ok {
		return nil, fmt.Errorf("%w: $project needs a document", ErrUnsupported)
	}

	out := make(bsonkit.List, 0, len(list))
	for _, doc := range list {
		row := bson.D{}
		includeID := true
		for _, f := range fields {
			if f.Key == "_id" {
				includeID = truthy(f.Value)
				continue
			}
			var v interface{}
			switch expr := f.Value.(type) {
			case string:
				if !strings.HasPrefix(expr, "$") {
					return nil, fmt.Errorf("%w: $project %s", ErrUnsupported, f.Key)
				}
				v = bsonkit.Get(doc, strings.TrimPrefix(expr, "$"))
			default:
				if !truthy(expr) {
					return nil, fmt.Errorf("%w: exclusion of %s", ErrUnsupported, f.Key)
				}
				v = bsonkit.Get(doc, f.Key)
			}
			if v != bsonkit.Missing {
				row = append(row, bson.E{Key: f.Key, Value: v})
			}
		}
		if id := bsonkit.Get(doc, "_id"); includeID && id != bsonkit.Missing {
			row = append(bson.D{{Key: "_id", Value: id}}, row...)
		}
		out = append(out, &row)
	}
	return out, nil
}

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case bool:
		return x
	case int32:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	}
	return false
}

// evaluate resolves "$path" references and $dateToString; anything else
// is a literal.
func evaluate(doc bsonkit.Doc, expr interface{}) (interface{}, error) {
	switch x := expr.(type) {
	case string:
		if !strings.HasPrefix(x, "$") {
			return x, nil
		}
		v := bsonkit.Get(doc, strings.TrimPrefix(x, "$"))
		if v == bsonkit.Missing {
			return nil, nil
		}
		return v, nil
	case bson.D:
		if len(x) != 1 || x[0].Key != "$dateToString" {
			return nil, fmt.Errorf("%w: expression %v", ErrUnsupported, x)
		}
		args, ok := x[0].Value.(bson.D)
		if !ok {
			return nil, fmt.Errorf("%w: $dateToString needs a document", ErrUnsupported)
		}
		format, _ := bsonkit.Get(&args, "format").(string)
		date, err := evaluate(doc, bsonkit.Get(&args, "date"))
		if err != nil {
			return nil, err
		}
		switch t := date.(type) {
		case nil:
			return nil, nil
		case primitive.DateTime:
			return formatDate(t.Time().UTC(), format)
		}
		return nil, fmt.Errorf("%w: $dateToString on %T", ErrUnsupported, date)
	}
	return expr, nil
}

// formatDate renders the %Y %m %d %H %M %S directives of $dateToString.
func formatDate(t time.Time, format string) (string, error) {
	if format == "" {
		return "", fmt.Errorf("%w: $dateToString without format", ErrUnsupported)
	}
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			b.WriteByte(format[i])
			continue
		}
		i++
		if i >= len(format) {
			return "", fmt.Errorf("%w: trailing %% in date format", ErrUnsupported)
		}
		switch format[i] {
		case 'Y':
			fmt.Fprintf(&b, "%04d", t.Year())
		case 'm':
			fmt.Fprintf(&b, "%02d", int(t.Month()))
		case 'd':
			fmt.Fprintf(&b, "%02d", t.Day())
		case 'H':
			fmt.Fprintf(&b, "%02d", t.Hour())
		case 'M':
			fmt.Fprintf(&b, "%02d", t.Minute())
		case 'S':
			fmt.Fprintf(&b, "%02d", t.Second())
		case '%':
			b.WriteByte('%')
		default:
			return "", fmt.Errorf("%w: date format %%%c", ErrUnsupported, format[i])
		}
	}
	return b.String(), nil
}
