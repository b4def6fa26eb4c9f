package format

// cloudEventSchema is the CloudEvents 1.0 Avro schema.
// Source: https://github.com/cloudevents/spec/blob/v1.0/spec.avsc
const cloudEventSchema = `{
  "namespace": "io.cloudevents",
  "type": "record",
  "name": "CloudEvent",
  "version": "1.0",
  "doc": "Avro Event Format for CloudEvents",
  "fields": [
    {
      "name": "attribute",
      "type": {
        "type": "map",
        "values": ["null", "boolean", "int", "string", "bytes"]
      }
    },
    {
      "name": "data",
      "type": [
        "bytes",
        "null",
        "boolean",
        {
          "type": "map",
          "values": [
            "null",
            "boolean",
            {
              "type": "record",
              "name": "CloudEventData",
              "doc": "Representation of a JSON Value",
              "fields": [
                {
                  "name": "value",
                  "type": {
                    "type": "map",
                    "values": [
                      "null",
                      "boolean",
                      {"type": "map", "values": "CloudEventData"},
                      {"type": "array", "items": "CloudEventData"},
                      "double",
                      "string"
                    ]
                  }
                }
              ]
            },
            "double",
            "string"
          ]
        },
        {"type": "array", "items": "CloudEventData"},
        "double",
        "string"
      ]
    }
  ]
}`

// Avro field and union branch names used by the schema.
const (
	avroFieldAttribute = "attribute"
	avroFieldData      = "data"
	avroFieldValue     = "value"

	avroNull    = "null"
	avroBoolean = "boolean"
	avroInt     = "int"
	avroString  = "string"
	avroBytes   = "bytes"
	avroDouble  = "double"
	avroMap     = "map"
	avroArray   = "array"

	avroCloudEventData = "io.cloudevents.CloudEventData"
)
