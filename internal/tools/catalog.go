package tools

import (
	"net/http"

	"github.com/bobmcallan/gong-mcp/internal/common"
	"github.com/mark3labs/mcp-go/mcp"
)

// datePattern matches calendar dates (YYYY-MM-DD) used by the stats endpoints.
const datePattern = `^\d{4}-\d{2}-\d{2}$`

// dateTimePattern restricts date-time values to UTC with a trailing Z.
const dateTimePattern = `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?Z$`

var (
	callDirections = []string{"Inbound", "Outbound", "Conference", "Unknown"}
	statsPeriods   = []string{"DAY", "WEEK", "MONTH"}
	crmObjectTypes = []string{"ACCOUNT", "CONTACT", "DEAL", "LEAD"}
)

// Nested property schemas.
func dateTimeSchema() map[string]any {
	return map[string]any{"type": "string", "format": "date-time", "pattern": dateTimePattern}
}

func dateSchema() map[string]any {
	return map[string]any{"type": "string", "pattern": datePattern}
}

func stringListSchema() map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	s := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// objectParam declares an object argument with a nested schema. mcp.WithObject
// reserves the "required" key for the argument itself, so nested required
// lists are set on the tool schema directly.
func objectParam(name, desc string, required bool, schema map[string]any) mcp.ToolOption {
	return func(t *mcp.Tool) {
		prop := make(map[string]any, len(schema)+1)
		for k, v := range schema {
			prop[k] = v
		}
		prop["description"] = desc
		if t.InputSchema.Properties == nil {
			t.InputSchema.Properties = make(map[string]any)
		}
		t.InputSchema.Properties[name] = prop
		if required {
			t.InputSchema.Required = append(t.InputSchema.Required, name)
		}
	}
}

// Top-level parameter helpers.
func cursorParam() mcp.ToolOption {
	return mcp.WithString("cursor", mcp.Description("Cursor returned by a previous page of results"))
}

func dateTimeParam(name, desc string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return mcp.WithString(name, append([]mcp.PropertyOption{mcp.Description(desc), Format("date-time"), mcp.Pattern(dateTimePattern)}, opts...)...)
}

func dateParam(name, desc string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return mcp.WithString(name, append([]mcp.PropertyOption{mcp.Description(desc), mcp.Pattern(datePattern)}, opts...)...)
}

func userIdsParam() mcp.ToolOption {
	return mcp.WithArray("userIds", mcp.Description("Gong user IDs"), mcp.WithStringItems())
}

func integrationIDParam() mcp.ToolOption {
	return mcp.WithNumber("integrationId", mcp.Description("CRM integration ID"), Integer(), mcp.Required())
}

func objectTypeParam() mcp.ToolOption {
	return mcp.WithString("objectType", mcp.Description("CRM object type"), mcp.Enum(crmObjectTypes...), mcp.Required())
}

// Catalog returns the definitions for every supported Gong endpoint.
func Catalog() []Definition {
	var defs []Definition
	defs = append(defs, callTools()...)
	defs = append(defs, userTools()...)
	defs = append(defs, statsTools()...)
	defs = append(defs, settingsTools()...)
	defs = append(defs, privacyTools()...)
	defs = append(defs, libraryTools()...)
	defs = append(defs, crmTools()...)
	return defs
}

// NewGongTable builds a table with the full catalog. It panics if the
// catalog is inconsistent.
func NewGongTable(client Doer, logger *common.Logger) *Table {
	t := NewTable(client, logger)
	t.MustRegister(Catalog()...)
	return t
}

func callTools() []Definition {
	return []Definition{
		{
			Name:        "getCalls",
			Description: "List calls that took place during a specified date range",
			Method:      http.MethodGet,
			Path:        "/v2/calls",
			Query:       []string{"fromDateTime", "toDateTime", "cursor", "workspaceId"},
			Params: []mcp.ToolOption{
				mcp.WithString("fromDateTime", mcp.Description("Start of the date range (ISO-8601)"), mcp.Required()),
				mcp.WithString("toDateTime", mcp.Description("End of the date range (ISO-8601)"), mcp.Required()),
				mcp.WithString("cursor", mcp.Description("Cursor returned by a previous page of results"), mcp.Required()),
				mcp.WithString("workspaceId", mcp.Description("Workspace to restrict results to"), mcp.Required()),
			},
		},
		{
			Name:        "addCall",
			Description: "Upload a new call to Gong",
			Method:      http.MethodPost,
			Path:        "/v2/calls",
			Body:        BodyFields,
			BodyFields: []string{
				"clientUniqueId", "title", "actualStart", "duration", "parties", "direction",
				"purpose", "scheduledStart", "scheduledEnd", "disposition", "downloadMediaUrl",
				"language", "workspaceId",
			},
			Params: []mcp.ToolOption{
				mcp.WithString("clientUniqueId", mcp.Description("Unique ID of the call in the source system"), mcp.Required()),
				mcp.WithString("title", mcp.Description("Call title"), mcp.Required()),
				dateTimeParam("actualStart", "Actual start time of the call", mcp.Required()),
				mcp.WithNumber("duration", mcp.Description("Call duration in seconds"), mcp.Required()),
				mcp.WithArray("parties", mcp.Description("Call participants"), mcp.Required(),
					mcp.Items(objectSchema(map[string]any{
						"userId":       map[string]any{"type": "string"},
						"emailAddress": map[string]any{"type": "string"},
						"name":         map[string]any{"type": "string"},
						"title":        map[string]any{"type": "string"},
						"speakerId":    map[string]any{"type": "string"},
					}))),
				mcp.WithString("direction", mcp.Description("Call direction"), mcp.Enum(callDirections...), mcp.Required()),
				mcp.WithString("purpose", mcp.Description("Call purpose")),
				dateTimeParam("scheduledStart", "Scheduled start time"),
				dateTimeParam("scheduledEnd", "Scheduled end time"),
				mcp.WithString("disposition", mcp.Description("Call disposition")),
				mcp.WithString("downloadMediaUrl", mcp.Description("URL Gong downloads the call media from")),
				mcp.WithString("language", mcp.Description("Spoken language code")),
				mcp.WithString("workspaceId", mcp.Description("Workspace the call belongs to")),
			},
		},
		{
			Name:        "getCallById",
			Description: "Retrieve data for a specific call by its ID",
			Method:      http.MethodGet,
			Path:        "/v2/calls/{id}",
			Params: []mcp.ToolOption{
				mcp.WithString("id", mcp.Description("Gong call ID"), mcp.Required()),
			},
		},
		{
			Name:        "addCallMedia",
			Description: "Add media to an existing call",
			Method:      http.MethodPut,
			Path:        "/v2/calls/{id}/media",
			Body:        BodyMultipart,
			BodyFields:  []string{"mediaFile"},
			Params: []mcp.ToolOption{
				mcp.WithString("id", mcp.Description("Gong call ID returned by addCall"), mcp.Required()),
				mcp.WithString("mediaFile", mcp.Description("Path of the local media file to upload"), mcp.Required()),
			},
		},
		{
			Name:        "getCallsExtensive",
			Description: "Retrieve detailed call data by various filters",
			Method:      http.MethodGet,
			Path:        "/v2/calls/extensive",
			Query:       []string{"fromDateTime", "toDateTime", "cursor", "workspaceId"},
			Params: []mcp.ToolOption{
				dateTimeParam("fromDateTime", "Start of the date range"),
				dateTimeParam("toDateTime", "End of the date range"),
				cursorParam(),
				mcp.WithString("workspaceId", mcp.Description("Workspace to restrict results to")),
			},
		},
		{
			Name:        "getCallTranscripts",
			Description: "Retrieve the transcript of calls",
			Method:      http.MethodPost,
			Path:        "/v2/calls/transcript",
			Body:        BodyFields,
			BodyFields:  []string{"filter"},
			Params: []mcp.ToolOption{
				objectParam("filter", "Calls to fetch transcripts for", true, objectSchema(map[string]any{
					"fromDateTime":   dateTimeSchema(),
					"toDateTime":     dateTimeSchema(),
					"callIds":        stringListSchema(),
					"primaryUserIds": stringListSchema(),
				})),
			},
		},
	}
}

func userTools() []Definition {
	return []Definition{
		{
			Name:        "getUsers",
			Description: "Retrieve a list of all users in the company",
			Method:      http.MethodGet,
			Path:        "/v2/users",
			Query:       []string{"cursor", "includeAvatars"},
			Params: []mcp.ToolOption{
				cursorParam(),
				mcp.WithBoolean("includeAvatars", mcp.Description("Include avatar URLs")),
			},
		},
		{
			Name:        "getUserById",
			Description: "Retrieve a specific user by their ID",
			Method:      http.MethodGet,
			Path:        "/v2/users/{id}",
			Params: []mcp.ToolOption{
				mcp.WithString("id", mcp.Description("Gong user ID"), mcp.Required()),
			},
		},
		{
			Name:        "getUserSettingsHistory",
			Description: "Retrieve the settings history for a specific user",
			Method:      http.MethodGet,
			Path:        "/v2/users/{id}/settings-history",
			Query:       []string{"fromDateTime", "toDateTime", "cursor"},
			Params: []mcp.ToolOption{
				mcp.WithString("id", mcp.Description("Gong user ID"), mcp.Required()),
				dateTimeParam("fromDateTime", "Start of the date range"),
				dateTimeParam("toDateTime", "End of the date range"),
				cursorParam(),
			},
		},
		{
			Name:        "getUsersExtensive",
			Description: "Retrieve a list of users based on specified filters",
			Method:      http.MethodPost,
			Path:        "/v2/users/extensive",
			Body:        BodyFields,
			BodyFields:  []string{"filter", "cursor"},
			Params: []mcp.ToolOption{
				objectParam("filter", "User filter", true, objectSchema(map[string]any{
					"createdFromDateTime": dateTimeSchema(),
					"createdToDateTime":   dateTimeSchema(),
					"userIds":             stringListSchema(),
				})),
				cursorParam(),
			},
		},
	}
}

func statsTools() []Definition {
	return []Definition{
		{
			Name:        "getActivityAggregate",
			Description: "Retrieve aggregated activity for defined users by date",
			Method:      http.MethodPost,
			Path:        "/v2/stats/activity/aggregate",
			Body:        BodyFields,
			BodyFields:  []string{"filter", "cursor"},
			Params: []mcp.ToolOption{
				objectParam("filter", "Activity filter", true, objectSchema(map[string]any{
					"fromDate":            dateSchema(),
					"toDate":              dateSchema(),
					"userIds":             stringListSchema(),
					"createdFromDateTime": dateTimeSchema(),
					"createdToDateTime":   dateTimeSchema(),
				}, "fromDate", "toDate")),
				cursorParam(),
			},
		},
		{
			Name:        "getActivityAggregateByPeriod",
			Description: "Retrieve aggregated activity for defined users by date range with grouping in time periods",
			Method:      http.MethodPost,
			Path:        "/v2/stats/activity/aggregate-by-period",
			Body:        BodyArgs,
			Params: []mcp.ToolOption{
				objectParam("filter", "Activity filter", true, objectSchema(map[string]any{
					"fromDate": dateSchema(),
					"toDate":   dateSchema(),
					"userIds":  stringListSchema(),
					"period":   map[string]any{"type": "string", "enum": statsPeriods},
				}, "fromDate", "toDate", "period")),
				cursorParam(),
			},
		},
		{
			Name:        "getActivityDayByDay",
			Description: "Retrieve daily activity for applicable users for a date range",
			Method:      http.MethodPost,
			Path:        "/v2/stats/activity/day-by-day",
			Body:        BodyArgs,
			Params: []mcp.ToolOption{
				objectParam("filter", "Activity filter", false, objectSchema(map[string]any{
					"fromDate": dateSchema(),
					"toDate":   dateSchema(),
					"userIds":  stringListSchema(),
				})),
				cursorParam(),
			},
		},
		{
			Name:        "getActivityScorecards",
			Description: "Retrieve answered scorecards for applicable reviewed users or scorecards for a date range",
			Method:      http.MethodGet,
			Path:        "/v2/stats/activity/scorecards",
			Query:       []string{"fromDate", "toDate", "cursor", "userIds"},
			Params: []mcp.ToolOption{
				dateParam("fromDate", "Start date (YYYY-MM-DD)"),
				dateParam("toDate", "End date (YYYY-MM-DD)"),
				cursorParam(),
				userIdsParam(),
			},
		},
		{
			Name:        "getInteractionStats",
			Description: "Retrieve interaction stats for applicable users by date",
			Method:      http.MethodGet,
			Path:        "/v2/stats/interaction",
			Query:       []string{"fromDate", "toDate", "cursor", "userIds"},
			Params: []mcp.ToolOption{
				dateParam("fromDate", "Start date (YYYY-MM-DD)", mcp.Required()),
				dateParam("toDate", "End date (YYYY-MM-DD)", mcp.Required()),
				cursorParam(),
				userIdsParam(),
			},
		},
	}
}

func settingsTools() []Definition {
	return []Definition{
		{
			Name:        "getScorecards",
			Description: "Retrieve all the scorecards within the Gong system",
			Method:      http.MethodGet,
			Path:        "/v2/settings/scorecards",
		},
		{
			Name:        "getTrackers",
			Description: "Retrieve details for trackers",
			Method:      http.MethodGet,
			Path:        "/v2/settings/trackers",
			Query:       []string{"cursor", "createdFromDateTime", "createdToDateTime"},
			Params: []mcp.ToolOption{
				cursorParam(),
				dateTimeParam("createdFromDateTime", "Only trackers created at or after this time"),
				dateTimeParam("createdToDateTime", "Only trackers created before this time"),
			},
		},
		{
			Name:        "getWorkspaces",
			Description: "Retrieve a list of all company workspaces",
			Method:      http.MethodGet,
			Path:        "/v2/workspaces",
			Query:       []string{"cursor"},
			Params:      []mcp.ToolOption{cursorParam()},
		},
	}
}

func privacyTools() []Definition {
	emailParam := func() mcp.ToolOption {
		return mcp.WithString("emailAddress", mcp.Description("Email address"), Format("email"), mcp.Required())
	}
	phoneParam := func() mcp.ToolOption {
		return mcp.WithString("phoneNumber", mcp.Description("Phone number"), mcp.Required())
	}
	return []Definition{
		{
			Name:        "getDataForEmailAddress",
			Description: "Retrieve all references to an email address",
			Method:      http.MethodGet,
			Path:        "/v2/data-privacy/data-for-email-address",
			Query:       []string{"emailAddress", "cursor"},
			Params:      []mcp.ToolOption{emailParam(), cursorParam()},
		},
		{
			Name:        "getDataForPhoneNumber",
			Description: "Retrieve all references to a phone number",
			Method:      http.MethodGet,
			Path:        "/v2/data-privacy/data-for-phone-number",
			Query:       []string{"phoneNumber", "cursor"},
			Params:      []mcp.ToolOption{phoneParam(), cursorParam()},
		},
		{
			Name:        "eraseDataForEmailAddress",
			Description: "Delete the email address and all associated elements",
			Method:      http.MethodDelete,
			Path:        "/v2/data-privacy/erase-data-for-email-address",
			Query:       []string{"emailAddress"},
			Params:      []mcp.ToolOption{emailParam()},
		},
		{
			Name:        "eraseDataForPhoneNumber",
			Description: "Delete the phone number and all associated elements",
			Method:      http.MethodDelete,
			Path:        "/v2/data-privacy/erase-data-for-phone-number",
			Query:       []string{"phoneNumber"},
			Params:      []mcp.ToolOption{phoneParam()},
		},
	}
}

func libraryTools() []Definition {
	return []Definition{
		{
			Name:        "getFolderContent",
			Description: "Retrieve a list of calls in a specific folder",
			Method:      http.MethodGet,
			Path:        "/v2/library/folder-content",
			Query:       []string{"folderId", "cursor", "fromDateTime", "toDateTime"},
			Params: []mcp.ToolOption{
				mcp.WithString("folderId", mcp.Description("Library folder ID"), mcp.Required()),
				cursorParam(),
				dateTimeParam("fromDateTime", "Start of the date range"),
				dateTimeParam("toDateTime", "End of the date range"),
			},
		},
		{
			Name:        "getLibraryFolders",
			Description: "Retrieve a list of library folders",
			Method:      http.MethodGet,
			Path:        "/v2/library/folders",
			Query:       []string{"cursor", "workspaceId"},
			Params: []mcp.ToolOption{
				cursorParam(),
				mcp.WithString("workspaceId", mcp.Description("Workspace to restrict results to")),
			},
		},
	}
}

func crmTools() []Definition {
	return []Definition{
		{
			Name:        "getCrmEntities",
			Description: "Retrieve CRM objects",
			Method:      http.MethodPost,
			Path:        "/v2/crm/entities",
			Query:       []string{"integrationId", "objectType"},
			Body:        BodyField,
			BodyFields:  []string{"requestBody"},
			Params: []mcp.ToolOption{
				integrationIDParam(),
				objectTypeParam(),
				objectParam("requestBody", "CRM object IDs to fetch", true,
					objectSchema(map[string]any{"objectsCrmIds": stringListSchema()}, "objectsCrmIds")),
			},
		},
		{
			Name:        "uploadCrmEntities",
			Description: "Upload CRM objects",
			Method:      http.MethodPost,
			Path:        "/v2/crm/entities",
			Query:       []string{"integrationId"},
			Body:        BodyField,
			BodyFields:  []string{"requestBody"},
			Params: []mcp.ToolOption{
				integrationIDParam(),
				objectParam("requestBody", "CRM objects to upload", true, objectSchema(map[string]any{
					"objects": map[string]any{
						"type": "array",
						"items": objectSchema(map[string]any{
							"objectType": map[string]any{"type": "string", "enum": crmObjectTypes},
							"crmId":      map[string]any{"type": "string"},
							"fields":     map[string]any{"type": "object"},
						}),
					},
				})),
			},
		},
		{
			Name:        "getCrmEntitySchema",
			Description: "Retrieve a list of schema fields",
			Method:      http.MethodGet,
			Path:        "/v2/crm/entity-schema",
			Query:       []string{"integrationId", "objectType"},
			Params:      []mcp.ToolOption{integrationIDParam(), objectTypeParam()},
		},
		{
			Name:        "uploadCrmEntitySchema",
			Description: "Upload an object schema",
			Method:      http.MethodPost,
			Path:        "/v2/crm/entity-schema",
			Query:       []string{"integrationId"},
			Body:        BodyField,
			BodyFields:  []string{"requestBody"},
			Params: []mcp.ToolOption{
				integrationIDParam(),
				objectParam("requestBody", "Object schema to upload", true, objectSchema(map[string]any{
					"objectType": map[string]any{"type": "string", "enum": crmObjectTypes},
					"fields": map[string]any{
						"type": "array",
						"items": objectSchema(map[string]any{
							"name":     map[string]any{"type": "string"},
							"type":     map[string]any{"type": "string"},
							"required": map[string]any{"type": "boolean"},
						}),
					},
				})),
			},
		},
		{
			Name:        "getCrmIntegrations",
			Description: "Retrieve details for a generic CRM integration",
			Method:      http.MethodGet,
			Path:        "/v2/crm/integrations",
			Query:       []string{"cursor"},
			Params:      []mcp.ToolOption{cursorParam()},
		},
		{
			Name:        "registerCrmIntegration",
			Description: "Register a new generic CRM integration",
			Method:      http.MethodPost,
			Path:        "/v2/crm/integrations",
			Body:        BodyArgs,
			Params: []mcp.ToolOption{
				mcp.WithString("name", mcp.Description("Integration name"), mcp.Required()),
				mcp.WithString("crmType", mcp.Description("CRM type"), mcp.Required()),
				mcp.WithString("description", mcp.Description("Integration description")),
			},
		},
	}
}
