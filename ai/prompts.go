package ai

import "github.com/poiesic/propmatch/core"

const responseShape = `{
  "name": "",
  "summary": "",
  "property_type": "",
  "location": "",
  "price": "",
  "rooms": [],
  "appliances": {},
  "features": [],
  "amenities": [],
  "layout": "",
  "condition": "",
  "rules": "",
  "contact": "",
  "additional_info": ""
}`

const commonRules = `
Rules:
- Output ONLY one JSON object with exactly the keys above. Do not include any preamble, explanation,
  markdown fences or trailing text. Start with { and end with }.
- rooms, features and amenities are lists of short lowercase names in singular form where possible
  ("living room", "balcony", "covered parking").
- appliances maps lowercase singular appliance names to integer counts ("ac": 2, "fridge": 1).
  Count each physical item once. Omit appliances that are not present; never use 0 or negative counts.
- Use an empty string or empty list when the source says nothing about a field. Do not guess.
- property_type is "<n>bhk", "<n>rk", "studio", "apartment", "flat" or "house" when it can be determined.
- price is the monthly rent or sale price as written, e.g. "₹25,000 per month".
`

const textInstructions = `You are a JSON generator. The input is a property advertisement or description in plain text.
Extract every detail it states about the property and return a JSON object of this shape:

` + responseShape + `
` + commonRules + `- Put availability, brokerage, deposit and maintenance details in additional_info.
- Put tenant preferences, pet policy and society rules in rules.
`

const imageInstructions = `You are a JSON-only generator. The input is one or more photos of a single apartment or house.
Identify the distinct rooms, count every visible appliance and piece of furniture, and list notable
features such as flooring, balconies or modular kitchens. Return a JSON object of this shape:

` + responseShape + `
` + commonRules + `- Photos rarely show location, price, rules or contact details; leave those empty unless text in the image states them.
- Describe the visible condition in one or two sentences.
`

const videoInstructions = `You are a JSON-only generator specializing in apartment walkthrough videos.
Follow the camera through the property, identify each room, and count appliances across frames without
counting the same item twice when it is seen from another angle. Return a JSON object of this shape:

` + responseShape + `
` + commonRules + `- layout describes room connectivity and flow in two or three sentences.
- condition summarizes maintenance and finishes in one or two sentences.
- Ignore audio; report only what is visible.
`

// Instructions returns the fixed system instructions for extracting a source of the given kind.
func Instructions(kind core.SourceKind) string {
	switch kind {
	case core.SourceKindImage:
		return imageInstructions
	case core.SourceKindVideo:
		return videoInstructions
	default:
		return textInstructions
	}
}
