package generator

import "github.com/google/generative-ai-go/genai"

func stringList() *genai.Schema {
	return &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
}

var analysisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":          {Type: genai.TypeString},
		"summary":        {Type: genai.TypeString},
		"currency":       {Type: genai.TypeString},
		"currencySymbol": {Type: genai.TypeString},
		"keywords": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"term":        {Type: genai.TypeString},
					"type":        {Type: genai.TypeString, Enum: []string{"Brand", "Generic", "Competitor"}},
					"volume":      {Type: genai.TypeInteger},
					"competition": {Type: genai.TypeInteger},
					"relevance":   {Type: genai.TypeInteger},
					"cpc":         {Type: genai.TypeNumber},
				},
			},
		},
	},
}

var adGroupsSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name":               {Type: genai.TypeString},
			"assigned_keywords":  stringList(),
			"headlines":          stringList(),
			"descriptions":       stringList(),
			"callouts":           stringList(),
			"sitelinks":          stringList(),
			"structuredSnippets": stringList(),
		},
	},
}
