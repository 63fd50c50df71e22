package tools

func userTools() []Tool {
	return []Tool{
		{
			Name:        "get_me",
			Description: "Get the authenticated user's profile.",
			ReadOnly:    true,
			InputSchema: InputSchema{
				Type:       "object",
				Properties: map[string]Property{},
			},
		},
	}
}

func userBuilders() map[string]buildFunc {
	return map[string]buildFunc{
		"get_me": func(args Args) (*Request, *Error) {
			return &Request{Method: "GET", Path: "/user"}, nil
		},
	}
}
