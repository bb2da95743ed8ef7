// Package services holds the application logic behind the driving ports.
//
// Ingestion parses the corpus into records, runs them through the
// post-processor pipeline and replaces the candidate index. Recommendation
// builds the group query, lets the generator retrieve once, checks the
// answer against what was retrieved and attaches a poster. Every outside
// dependency arrives as a driven port.
package services
