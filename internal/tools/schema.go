package tools

// Tool describes one callable operation and its argument schema.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"inputSchema"`

	// ReadOnly marks tools that never mutate upstream state.
	ReadOnly bool `json:"-"`
}

// InputSchema is a JSON-Schema-shaped description of a tool's arguments.
type InputSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes a single argument.
type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Items       *ItemType `json:"items,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
	Minimum     *int      `json:"minimum,omitempty"`
	Maximum     *int      `json:"maximum,omitempty"`
}

// ItemType describes the element type of an array property.
type ItemType struct {
	Type string `json:"type"`
}

// Helper constructors for schema properties

func stringProp(desc string) Property {
	return Property{Type: "string", Description: desc}
}

func stringPropDefault(desc, def string) Property {
	return Property{Type: "string", Description: desc, Default: def}
}

func enumProp(desc string, values ...string) Property {
	return Property{Type: "string", Description: desc, Enum: values}
}

func enumPropDefault(desc, def string, values ...string) Property {
	return Property{Type: "string", Description: desc, Enum: values, Default: def}
}

func stringArrayProp(desc string) Property {
	return Property{Type: "array", Description: desc, Items: &ItemType{Type: "string"}}
}

func objectArrayProp(desc string) Property {
	return Property{Type: "array", Description: desc, Items: &ItemType{Type: "object"}}
}

func boolProp(desc string) Property {
	return Property{Type: "boolean", Description: desc}
}

func intProp(desc string, min, max int) Property {
	return Property{Type: "integer", Description: desc, Minimum: &min, Maximum: &max}
}

func intPropMin(desc string, min int) Property {
	return Property{Type: "integer", Description: desc, Minimum: &min}
}

func pageProp() Property {
	return intPropMin("Page number to fetch (1-based)", 1)
}

func perPageProp() Property {
	return intProp("Results per page (max 100)", 1, 100)
}
