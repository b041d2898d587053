// internal/quality/schema.go
package quality

// datasetV2Schema is the fixed JSON Schema the cleaned v2 metadata object is
// validated against. Validation failures never block scoring; they feed the
// error weight for fields that are present but invalid.
const datasetV2Schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "identifier": { "type": "string", "minLength": 3 },
    "summary": {
      "type": "object",
      "properties": {
        "title": { "type": "string", "minLength": 2, "maxLength": 80 },
        "abstract": { "type": "string", "minLength": 5, "maxLength": 255 },
        "contactPoint": { "type": "string", "format": "email" },
        "keywords": { "type": "array", "items": { "type": "string", "minLength": 2 } },
        "alternateIdentifiers": { "type": "array", "items": { "type": "string" } },
        "doiName": { "type": "string", "pattern": "^10\\.\\d{4,9}/[-._;()/:a-zA-Z0-9]+$" },
        "publisher": {
          "type": "object",
          "properties": {
            "identifier": { "type": "string" },
            "name": { "type": "string", "minLength": 2 },
            "logo": { "type": "string", "format": "uri" },
            "description": { "type": "string" },
            "contactPoint": { "type": "string", "format": "email" },
            "memberOf": { "type": "string", "enum": ["HUB", "ALLIANCE", "OTHER", "NCS"] }
          }
        }
      }
    },
    "documentation": {
      "type": "object",
      "properties": {
        "description": { "type": "string", "minLength": 5 },
        "associatedMedia": { "type": "array", "items": { "type": "string", "format": "uri" } },
        "isPartOf": { "type": "array", "items": { "type": "string" } }
      }
    },
    "coverage": {
      "type": "object",
      "properties": {
        "spatial": { "type": "string", "minLength": 2 },
        "typicalAgeRange": { "type": "string", "pattern": "^\\d{1,3}-\\d{1,3}$" },
        "physicalSampleAvailability": { "type": "array", "items": { "type": "string" } },
        "followup": { "type": "string", "enum": ["0 - 6 MONTHS", "6 - 12 MONTHS", "1 - 10 YEARS", "> 10 YEARS", "UNKNOWN", "CONTINUOUS", "OTHER"] },
        "pathway": { "type": "string" }
      }
    },
    "provenance": {
      "type": "object",
      "properties": {
        "origin": {
          "type": "object",
          "properties": {
            "purpose": { "type": "array", "items": { "type": "string" } },
            "source": { "type": "array", "items": { "type": "string" } },
            "collectionSituation": { "type": "array", "items": { "type": "string" } }
          }
        },
        "temporal": {
          "type": "object",
          "properties": {
            "accrualPeriodicity": { "type": "string", "enum": ["DAILY", "WEEKLY", "MONTHLY", "QUARTERLY", "ANNUAL", "BIENNIAL", "CONTINUOUS", "IRREGULAR", "STATIC", "OTHER"] },
            "distributionReleaseDate": { "type": "string", "format": "date" },
            "startDate": { "type": "string", "format": "date" },
            "endDate": { "type": "string", "format": "date" },
            "timeLag": { "type": "string", "enum": ["LESS 1 WEEK", "1-2 WEEKS", "2-4 WEEKS", "1-2 MONTHS", "2-6 MONTHS", "MORE 6 MONTHS", "VARIABLE", "NOT APPLICABLE", "OTHER"] }
          }
        }
      }
    },
    "accessibility": {
      "type": "object",
      "properties": {
        "usage": {
          "type": "object",
          "properties": {
            "dataUseLimitation": { "type": "array", "items": { "type": "string" } },
            "dataUseRequirements": { "type": "array", "items": { "type": "string" } },
            "resourceCreator": { "type": "string" },
            "investigations": { "type": "array", "items": { "type": "string", "format": "uri" } },
            "isReferencedBy": { "type": "array", "items": { "type": "string" } }
          }
        },
        "access": {
          "type": "object",
          "properties": {
            "accessRights": { "type": "array", "items": { "type": "string" } },
            "accessService": { "type": "string" },
            "accessRequestCost": { "type": "string" },
            "deliveryLeadTime": { "type": "string", "enum": ["LESS 1 WEEK", "1-2 WEEKS", "2-4 WEEKS", "1-2 MONTHS", "2-6 MONTHS", "MORE 6 MONTHS", "VARIABLE", "NOT APPLICABLE", "OTHER"] },
            "jurisdiction": { "type": "array", "items": { "type": "string", "pattern": "^[A-Z]{2}(-[A-Z]{2,3})?$" } },
            "dataController": { "type": "string" },
            "dataProcessor": { "type": "string" }
          }
        },
        "formatAndStandards": {
          "type": "object",
          "properties": {
            "vocabularyEncodingScheme": { "type": "array", "items": { "type": "string" } },
            "conformsTo": { "type": "array", "items": { "type": "string" } },
            "language": { "type": "array", "items": { "type": "string", "pattern": "^[a-z]{2}$" } },
            "format": { "type": "array", "items": { "type": "string" } }
          }
        }
      }
    },
    "enrichmentAndLinkage": {
      "type": "object",
      "properties": {
        "qualifiedRelation": { "type": "array", "items": { "type": "string" } },
        "derivation": { "type": "array", "items": { "type": "string" } },
        "tools": { "type": "array", "items": { "type": "string", "format": "uri" } }
      }
    },
    "observations": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "observedNode": { "type": "string", "enum": ["PERSONS", "EVENTS", "FINDINGS"] },
          "measuredValue": { "type": "integer", "minimum": 0 },
          "observationDate": { "type": "string", "format": "date" },
          "measuredProperty": { "type": "string" },
          "disambiguatingDescription": { "type": "string" }
        }
      }
    },
    "structuralMetadata": {
      "type": "object",
      "properties": {
        "tables": { "type": "array", "items": { "type": "string" } },
        "dataClassesCount": { "type": "integer", "minimum": 0 }
      }
    }
  }
}`
