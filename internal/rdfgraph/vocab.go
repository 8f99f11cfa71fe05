// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 renku-aqs Contributors

package rdfgraph

// Namespace IRIs.
const (
	NSRDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	NSXSD     = "http://www.w3.org/2001/XMLSchema#"
	NSXML     = "http://www.w3.org/XML/1998/namespace"
	NSProv    = "http://www.w3.org/ns/prov#"
	NSOA      = "http://www.w3.org/ns/oa#"
	NSDCTerms = "http://purl.org/dc/terms/"
	NSDC      = "http://purl.org/dc/elements/1.1/"
	NSFOAF    = "http://xmlns.com/foaf/0.1/"
	NSVCard   = "http://www.w3.org/2006/vcard/ns#"
	NSSchema  = "http://schema.org/"
	NSRenku   = "https://swissdatasciencecenter.github.io/renku-ontology#"
	NSODA     = "http://odahub.io/ontology#"
	NSODAS    = "https://odahub.io/ontology#"
)

const (
	XSDString   = NSXSD + "string"
	XSDDateTime = NSXSD + "dateTime"
	XSDInteger  = NSXSD + "integer"
)

// Predicates and classes used by the display pipeline.
var (
	RDFType = IRI(NSRDF + "type")

	RDFSLabel = IRI(NSRDFS + "label")
	DCTitle   = IRI(NSDC + "title")
	FOAFName  = IRI(NSFOAF + "name")
	VCardFN   = IRI(NSVCard + "fn")
	VCardOrg  = IRI(NSVCard + "org")

	ProvStartedAtTime        = IRI(NSProv + "startedAtTime")
	ProvQualifiedAssociation = IRI(NSProv + "qualifiedAssociation")
	ProvHadPlan              = IRI(NSProv + "hadPlan")

	OAHasTarget = IRI(NSOA + "hasTarget")
	OAHasBody   = IRI(NSOA + "hasBody")

	DCTermsTitle = IRI(NSDCTerms + "title")

	SchemaAction       = IRI(NSSchema + "Action")
	SchemaDefaultValue = IRI(NSSchema + "defaultValue")

	RenkuCommand        = IRI(NSRenku + "command")
	RenkuHasInputs      = IRI(NSRenku + "hasInputs")
	RenkuHasArguments   = IRI(NSRenku + "hasArguments")
	RenkuHasOutputs     = IRI(NSRenku + "hasOutputs")
	RenkuPosition       = IRI(NSRenku + "position")
	RenkuIsInputOf      = IRI(NSRenku + "isInputOf")
	RenkuIsArgumentOf   = IRI(NSRenku + "isArgumentOf")
	RenkuParameter      = IRI(NSRenku + "parameter")
	RenkuCommandInput   = IRI(NSRenku + "CommandInput")
	RenkuCommandOutput  = IRI(NSRenku + "CommandOutput")
	RenkuCommandParam   = IRI(NSRenku + "CommandParameter")
	RenkuOutputImage    = IRI(NSRenku + "CommandOutputImage")
	RenkuOutputFitsFile = IRI(NSRenku + "CommandOutputFitsFile")
	RenkuOutputNotebook = IRI(NSRenku + "CommandOutputNotebook")

	ODAIsUsing                 = IRI(NSODA + "isUsing")
	ODAIsRequestingAstroObject = IRI(NSODA + "isRequestingAstroObject")
	ODAIsRequestingAstroRegion = IRI(NSODA + "isRequestingAstroRegion")
	ODAIsUsedDuring            = IRI(NSODA + "isUsedDuring")
	ODARequestsAstroObject     = IRI(NSODA + "requestsAstroObject")
	ODARequestsAstroRegion     = IRI(NSODA + "requestsAstroRegion")
	ODAIsUsingSkyCoordinates   = IRI(NSODA + "isUsingSkyCoordinates")
	ODAIsUsingRadius           = IRI(NSODA + "isUsingRadius")
)

// LabelProperties are consulted in order when resolving a node label.
var LabelProperties = []Term{RDFSLabel, DCTitle, FOAFName, VCardFN, VCardOrg}
