package hypernative

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginData struct {
	Token string `json:"token"`
}

type loginResponse struct {
	Data loginData `json:"data"`
}

type agentRequest struct {
	AgentType               string                 `json:"agentType"`
	AgentName               string                 `json:"agentName"`
	Severity                string                 `json:"severity"`
	MuteDuration            int64                  `json:"muteDuration"`
	State                   string                 `json:"state"`
	Rule                    agentRule              `json:"rule"`
	ChannelsConfigurations  []channelConfiguration `json:"channelsConfigurations"`
	RemindersConfigurations []channelConfiguration `json:"remindersConfigurations"`
	Delay                   int64                  `json:"delay"`
}

type agentRule struct {
	Chain                  string           `json:"chain"`
	Input                  []string         `json:"input"`
	FuncSig                string           `json:"funcSig"`
	FileName               string           `json:"fileName"`
	Operands               []string         `json:"operands"`
	Operator               string           `json:"operator"`
	RuleString             string           `json:"ruleString"`
	OutputIndex            int64            `json:"outputIndex"`
	InputDataType          []string         `json:"inputDataType"`
	OutputDataType         []string         `json:"outputDataType"`
	ContractAddress        string           `json:"contractAddress"`
	ContractAddressAlias   string           `json:"contractAddressAlias"`
	ContractFunctionObject contractFunction `json:"contractFunctionObject"`
}

type contractFunction struct {
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	Inputs          []functionInput  `json:"inputs"`
	Outputs         []functionOutput `json:"outputs"`
	StateMutability string           `json:"stateMutability"`
}

type functionInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type functionOutput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type channelConfiguration struct {
	ChannelType   string               `json:"channelType"`
	Configuration channelConfigPayload `json:"configuration"`
}

type channelConfigPayload struct {
	Email []string `json:"email,omitempty"`
	URL   []string `json:"url,omitempty"`
}

type agentData struct {
	ID int64 `json:"id"`
}

type agentResponse struct {
	Data agentData `json:"data"`
}
