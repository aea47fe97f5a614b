package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/espocrm-client/internal/constants"
	"github.com/fivetwenty-io/espocrm-client/pkg/espo"
)

// paramsFlags holds the list parameter flags shared by request and query.
type paramsFlags struct {
	where         []string
	whereFile     string
	offset        int64
	maxSize       int64
	selectAttrs   []string
	orderBy       string
	order         string
	primaryFilter string
	boolFilters   []string
}

func (f *paramsFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.where, "where", "w", nil, "filter condition type:attribute[=value], value [a,b] for arrays (repeatable)")
	cmd.Flags().StringVar(&f.whereFile, "where-file", "", "YAML or JSON file with a list of filter conditions")
	cmd.Flags().Int64Var(&f.offset, "offset", 0, "offset of the first record")
	cmd.Flags().Int64Var(&f.maxSize, "max-size", 0, "maximum number of records")
	cmd.Flags().StringSliceVar(&f.selectAttrs, "select", nil, "attributes to return")
	cmd.Flags().StringVar(&f.orderBy, "order-by", "", "attribute to sort by")
	cmd.Flags().StringVar(&f.order, "order", "", "sort direction (asc, desc)")
	cmd.Flags().StringVar(&f.primaryFilter, "primary-filter", "", "named primary filter")
	cmd.Flags().StringSliceVar(&f.boolFilters, "bool-filter", nil, "named bool filters")
}

// build turns the flags set on cmd into list parameters. Flags left unset
// stay absent.
func (f *paramsFlags) build(cmd *cobra.Command) (*espo.Params, error) {
	params := espo.NewParams()

	if cmd.Flags().Changed("offset") {
		params.WithOffset(f.offset)
	}

	if cmd.Flags().Changed("max-size") {
		params.WithMaxSize(f.maxSize)
	}

	if len(f.selectAttrs) > 0 {
		params.WithSelect(f.selectAttrs...)
	}

	if f.orderBy != "" {
		params.WithOrderBy(f.orderBy)
	}

	if f.order != "" {
		order, err := espo.ParseOrder(f.order)
		if err != nil {
			return nil, err
		}

		params.WithOrder(order)
	}

	if f.primaryFilter != "" {
		params.WithPrimaryFilter(f.primaryFilter)
	}

	if len(f.boolFilters) > 0 {
		params.WithBoolFilter(f.boolFilters...)
	}

	for _, raw := range f.where {
		where, err := parseWhereFlag(raw)
		if err != nil {
			return nil, err
		}

		params.WithWhere(where)
	}

	if f.whereFile != "" {
		conditions, err := loadWhereFile(f.whereFile)
		if err != nil {
			return nil, err
		}

		params.WithWhere(conditions...)
	}

	return params, nil
}

// parseWhereFlag parses "type:attribute[=value]". A value wrapped in brackets
// is split on commas into an array.
func parseWhereFlag(raw string) (espo.Where, error) {
	token, rest, ok := strings.Cut(raw, ":")
	if !ok || token == "" {
		return espo.Where{}, fmt.Errorf("%w: %q", constants.ErrInvalidWhereFlag, raw)
	}

	filterType, err := espo.ParseFilterType(token)
	if err != nil {
		return espo.Where{}, err
	}

	attribute, value, hasValue := strings.Cut(rest, "=")
	if attribute == "" {
		return espo.Where{}, fmt.Errorf("%w: %q", constants.ErrInvalidWhereFlag, raw)
	}

	if !hasValue {
		return espo.NewWhere(filterType, attribute), nil
	}

	return espo.NewWhere(filterType, attribute, parseFlagValue(value)), nil
}

func parseFlagValue(value string) espo.Value {
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		inner := strings.TrimSpace(value[1 : len(value)-1])
		if inner == "" {
			return espo.Strings()
		}

		items := strings.Split(inner, ",")
		for i := range items {
			items[i] = strings.TrimSpace(items[i])
		}

		return espo.Strings(items...)
	}

	return espo.String(value)
}

type whereSpec struct {
	Type      string    `yaml:"type"`
	Attribute string    `yaml:"attribute"`
	Value     yaml.Node `yaml:"value"`
}

func loadWhereFile(path string) ([]espo.Where, error) {
	// #nosec G304 -- path is supplied by the user on the command line
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read where file: %w", err)
	}

	return parseWhereDocument(data)
}

// parseWhereDocument decodes a YAML (or JSON) list of conditions. Scalar
// types follow the document: 5 is an integer, "5" a string.
func parseWhereDocument(data []byte) ([]espo.Where, error) {
	var specs []whereSpec

	err := yaml.Unmarshal(data, &specs)
	if err != nil {
		return nil, fmt.Errorf("failed to parse where file: %w", err)
	}

	return convertSpecs(specs)
}

func convertSpecs(specs []whereSpec) ([]espo.Where, error) {
	conditions := make([]espo.Where, 0, len(specs))

	for i, spec := range specs {
		where, err := convertSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i, err)
		}

		conditions = append(conditions, where)
	}

	return conditions, nil
}

func convertSpec(spec whereSpec) (espo.Where, error) {
	filterType, err := espo.ParseFilterType(spec.Type)
	if err != nil {
		return espo.Where{}, err
	}

	if filterType.IsGroup() {
		var nested []whereSpec

		if spec.Value.Kind != 0 {
			err = spec.Value.Decode(&nested)
			if err != nil {
				return espo.Where{}, fmt.Errorf("decoding %s group: %w", spec.Type, err)
			}
		}

		conditions, err := convertSpecs(nested)
		if err != nil {
			return espo.Where{}, err
		}

		where := espo.Group(filterType, conditions...)
		where.Attribute = spec.Attribute

		return where, nil
	}

	if spec.Value.Kind == 0 {
		return espo.NewWhere(filterType, spec.Attribute), nil
	}

	value, err := nodeValue(&spec.Value)
	if err != nil {
		return espo.Where{}, fmt.Errorf("attribute %s: %w", spec.Attribute, err)
	}

	return espo.NewWhere(filterType, spec.Attribute, value), nil
}

// nodeValue converts a YAML node into a Value, keeping mapping key order.
func nodeValue(node *yaml.Node) (espo.Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return espo.Value{}, nil
		}

		return nodeValue(node.Content[0])
	case yaml.AliasNode:
		return nodeValue(node.Alias)
	case yaml.SequenceNode:
		items := make([]espo.Value, 0, len(node.Content))

		for _, child := range node.Content {
			item, err := nodeValue(child)
			if err != nil {
				return espo.Value{}, err
			}

			items = append(items, item)
		}

		return espo.Array(items...), nil
	case yaml.MappingNode:
		fields := make([]espo.Field, 0, len(node.Content)/2)

		for i := 0; i+1 < len(node.Content); i += 2 {
			item, err := nodeValue(node.Content[i+1])
			if err != nil {
				return espo.Value{}, err
			}

			fields = append(fields, espo.Field{Key: node.Content[i].Value, Value: item})
		}

		return espo.Object(fields...), nil
	case yaml.ScalarNode:
		return scalarValue(node)
	default:
		return espo.Value{}, fmt.Errorf("%w: yaml node kind %d", espo.ErrUnsupportedValueType, node.Kind)
	}
}

func scalarValue(node *yaml.Node) (espo.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return espo.Value{}, nil
	case "!!str", "!!float", "!!timestamp":
		return espo.String(node.Value), nil
	}

	var decoded interface{}

	err := node.Decode(&decoded)
	if err != nil {
		return espo.Value{}, fmt.Errorf("decoding %q: %w", node.Value, err)
	}

	return espo.ValueOf(decoded)
}
