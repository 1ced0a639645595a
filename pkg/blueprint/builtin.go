package blueprint

import (
	"github.com/matzehuels/archdiagram/pkg/catalog"
	"github.com/matzehuels/archdiagram/pkg/diagram"
)

func init() {
	for _, bp := range builtins {
		MustRegister(bp)
	}
}

var builtins = []Blueprint{
	{
		Name:        "document-vault-app",
		Title:       "Document vault app",
		Description: "Runtime architecture of the DocumentVault app on Container Apps",
		Direction:   diagram.LeftToRight,
		Build:       documentVaultApp,
	},
	{
		Name:        "app-service-with-env",
		Title:       "app-service-with-env",
		Description: "Runtime architecture with production, test and staging App Services",
		Direction:   diagram.LeftToRight,
		Build:       appServiceWithEnv,
	},
	{
		Name:        "sdlc-app-service-with-env",
		Title:       "SDLC: App Service with Environments",
		Description: "Delivery pipeline deploying App Service slots through federated identities",
		Filename:    "sdlc-app-service-with-env",
		Build:       sdlcAppServiceWithEnv,
	},
	{
		Name:        "sdlc-container-apps",
		Title:       "SDLC: Container Apps Deployment",
		Description: "Delivery pipeline building images into ACR and updating Container Apps",
		Filename:    "sdlc-container-apps",
		Build:       sdlcContainerApps,
	},
	{
		Name:        "sdlc-deployment-center",
		Title:       "SDLC: App Service with Deployment Center",
		Description: "Delivery pipeline pushing App Service slots through Deployment Center",
		Filename:    "sdlc-deployment-center",
		Build:       sdlcDeploymentCenter,
	},
}

func documentVaultApp(b *diagram.Builder) error {
	s := sketch{b}
	user := s.node(b.Root(), catalog.Users, "User")

	rg := s.cluster(b.Root(), "documentvault-rg")
	web := s.node(rg, catalog.ContainerApp, "Web App")
	fn := s.node(rg, catalog.FunctionApp, "Function App")
	blob := s.node(rg, catalog.StorageAccount, "Blob storage")
	cosmos := s.node(rg, catalog.CosmosDB, "Cosmos DB")
	frontDoor := s.node(rg, catalog.FrontDoor, "Front Door & CDN")

	s.edge(user, "accesses", web)
	s.edge(web, "generates download link", fn)
	s.edge(web, "uploads to", blob)
	s.edge(fn, "manages links in", cosmos)
	s.edge(fn, "generates SAS tokens for", blob)
	s.edge(web, "reads metadata from", cosmos)
	s.edge(blob, "served via", frontDoor)
	s.end(rg)

	return b.Err()
}

func appServiceWithEnv(b *diagram.Builder) error {
	s := sketch{b}
	user := s.node(b.Root(), catalog.Users, "User")

	rg := s.cluster(b.Root(), "documentvault-rg-as")
	web := s.node(rg, catalog.AppService, "Web App")
	webTest := s.node(rg, catalog.AppService, "Web App Test")
	webStaging := s.node(rg, catalog.AppService, "Web App Staging")
	fn := s.node(rg, catalog.FunctionApp, "Function App")
	blob := s.node(rg, catalog.StorageAccount, "Blob storage")
	cosmos := s.node(rg, catalog.CosmosDB, "Cosmos DB")
	frontDoor := s.node(rg, catalog.FrontDoor, "Front Door & CDN")

	s.edge(user, "accesses", web, webTest, webStaging)
	s.edge(web, "generates download link", fn)
	s.edge(webTest, "generates download link", fn)
	s.edge(webStaging, "generates download link", fn)
	s.edge(web, "uploads to", blob)
	s.edge(webTest, "uploads to", blob)
	s.edge(webStaging, "uploads to", blob)
	s.edge(fn, "manages links in", cosmos)
	s.edge(fn, "generates SAS tokens for", blob)
	s.edge(web, "reads metadata from", cosmos)
	s.edge(blob, "served via", frontDoor)
	s.end(rg)

	return b.Err()
}

func sdlcAppServiceWithEnv(b *diagram.Builder) error {
	s := sketch{b}
	root := b.Root()

	dev := s.cluster(root, "Development")
	function := s.node(dev, catalog.CSharp, "src/DocumentVault.Function")
	web := s.node(dev, catalog.CSharp, "src/DocumentVault.Web")
	s.end(dev)

	gh := s.cluster(root, "GitHub")
	repo := s.node(gh, catalog.Repository, "Repository")
	s.end(gh)

	pipelines := s.cluster(root, "Pipelines")
	webPipeline := s.node(pipelines, catalog.Pipeline, "web-app-cd-with-env.yml")
	functionPipeline := s.node(pipelines, catalog.Pipeline, "function-app-cd.yml")
	s.end(pipelines)

	tenant := s.cluster(root, "Azure tenant")
	ids := s.cluster(tenant, "Federated Identities")
	prodID := s.node(ids, catalog.ManagedIdentity, "prod-identity")
	testID := s.node(ids, catalog.ManagedIdentity, "test-identity")
	stagingID := s.node(ids, catalog.ManagedIdentity, "staging-identity")
	functionID := s.node(ids, catalog.ManagedIdentity, "function-identity")
	s.end(ids)

	appService := s.cluster(tenant, "App Service")
	prodSlot := s.node(appService, catalog.AppService, "Production Slot")
	testSlot := s.node(appService, catalog.AppService, "Test Slot")
	stagingSlot := s.node(appService, catalog.AppService, "Staging Slot")
	s.end(appService)

	cosmos := s.node(tenant, catalog.CosmosDB, "Cosmos DB")
	storage := s.node(tenant, catalog.StorageAccount, "Storage Account")
	cdn := s.node(tenant, catalog.CDNProfile, "CDN")
	functionApp := s.node(tenant, catalog.FunctionApp, "Function App")
	s.end(tenant)

	s.edge(web, "code & commit", repo)
	s.edge(function, "code & commit", repo)

	s.edge(repo, "manual trigger, select environment", webPipeline)
	s.edge(repo, "manual trigger", functionPipeline)

	s.edge(webPipeline, "authenticate", prodID, testID, stagingID)

	s.edge(prodID, "deploy", prodSlot)
	s.edge(testID, "deploy", testSlot)
	s.edge(stagingID, "deploy", stagingSlot)

	s.edge(functionPipeline, "authenticate", functionID)
	s.edge(functionID, "deploy", functionApp)

	s.fanIn("", cosmos, prodSlot, testSlot, stagingSlot)
	s.fanIn("", storage, prodSlot, testSlot, stagingSlot)
	s.edge(functionApp, "", cosmos)
	s.edge(functionApp, "", storage)
	s.edge(storage, "", cdn)

	return b.Err()
}

func sdlcContainerApps(b *diagram.Builder) error {
	s := sketch{b}
	root := b.Root()

	dev := s.cluster(root, "Development")
	developer := s.node(dev, catalog.CSharp, "Developer")
	localDocker := s.node(dev, catalog.Docker, "Local Docker")
	s.end(dev)

	scm := s.cluster(root, "Source Control")
	repo := s.node(scm, catalog.Repository, "GitHub Repository")
	mainBranch := s.node(scm, catalog.Repository, "main branch")
	s.end(scm)

	pipelines := s.cluster(root, "Pipelines")
	webPipeline := s.node(pipelines, catalog.Pipeline, "web-app-cd.yml")
	functionPipeline := s.node(pipelines, catalog.Pipeline, "function-app-cd.yml")
	s.end(pipelines)

	tenant := s.cluster(root, "Azure tenant")
	ids := s.cluster(tenant, "Federated Identities")
	webID := s.node(ids, catalog.ManagedIdentity, "web-identity")
	functionID := s.node(ids, catalog.ManagedIdentity, "function-identity")
	s.end(ids)

	acr := s.node(tenant, catalog.ContainerRegistry, "Azure Container Registry")

	env := s.cluster(tenant, "Container Apps Environment")
	webApp := s.node(env, catalog.ContainerApp, "Web App")
	functionApp := s.node(env, catalog.FunctionApp, "Function App")
	s.end(env)

	cosmos := s.node(tenant, catalog.CosmosDB, "Cosmos DB")
	storage := s.node(tenant, catalog.StorageAccount, "Storage Account")
	cdn := s.node(tenant, catalog.CDNProfile, "CDN")
	s.end(tenant)

	s.edge(developer, "code & commit", repo)
	s.edge(repo, "push to main", mainBranch)

	s.edge(mainBranch, "trigger", webPipeline)
	s.edge(mainBranch, "trigger", functionPipeline)

	s.edge(webPipeline, "authenticate", webID)
	s.edge(functionPipeline, "authenticate", functionID)

	s.edge(webID, "build & push image", acr)
	s.edge(webID, "container app update", webApp)
	s.edge(webApp, "pull new image", acr)

	s.edge(functionID, "deploy function", functionApp)

	s.edge(webApp, "", cosmos)
	s.edge(functionApp, "", cosmos)
	s.edge(webApp, "", storage)
	s.edge(functionApp, "", storage)
	s.edge(storage, "", cdn)

	s.edge(developer, "local dev", localDocker)

	return b.Err()
}

func sdlcDeploymentCenter(b *diagram.Builder) error {
	s := sketch{b}
	root := b.Root()

	dev := s.cluster(root, "Development")
	function := s.node(dev, catalog.CSharp, "src/DocumentVault.Function")
	web := s.node(dev, catalog.CSharp, "src/DocumentVault.Web")
	s.end(dev)

	gh := s.cluster(root, "GitHub")
	repo := s.node(gh, catalog.Repository, "Repository")
	s.end(gh)

	pipelines := s.cluster(root, "Pipelines")
	webPipeline := s.node(pipelines, catalog.Pipeline, "Deployment center auto provisioned yaml workflow")
	functionPipeline := s.node(pipelines, catalog.Pipeline, "function-app-cd.yml")
	s.end(pipelines)

	tenant := s.cluster(root, "Azure tenant")
	webApp := s.cluster(tenant, "Web App")

	prod := s.cluster(webApp, "Production")
	prodDC := s.node(prod, catalog.DeploymentCenter, "Deployment Center")
	prodSlot := s.node(prod, catalog.AppService, "Production Slot")
	s.end(prod)

	staging := s.cluster(webApp, "Staging")
	stagingDC := s.node(staging, catalog.DeploymentCenter, "Deployment Center")
	stagingSlot := s.node(staging, catalog.AppService, "Staging Slot")
	s.end(staging)

	test := s.cluster(webApp, "Test")
	testDC := s.node(test, catalog.DeploymentCenter, "Deployment Center")
	testSlot := s.node(test, catalog.AppService, "Test Slot")
	s.end(test)
	s.end(webApp)

	fnIdentity := s.cluster(tenant, "Function App Identity")
	functionID := s.node(fnIdentity, catalog.ManagedIdentity, "function-identity")
	s.end(fnIdentity)

	cosmos := s.node(tenant, catalog.CosmosDB, "Cosmos DB")
	storage := s.node(tenant, catalog.StorageAccount, "Storage Account")
	cdn := s.node(tenant, catalog.CDNProfile, "CDN")
	functionApp := s.node(tenant, catalog.FunctionApp, "Function App")
	s.end(tenant)

	s.edge(web, "code & commit", repo)
	s.edge(function, "code & commit", repo)

	s.edge(repo, "push to target branch", webPipeline)
	s.edge(repo, "manual trigger", functionPipeline)

	s.edge(webPipeline, "push via Deployment Center", prodDC, stagingDC, testDC)

	s.edge(prodDC, "deploy", prodSlot)
	s.edge(stagingDC, "deploy", stagingSlot)
	s.edge(testDC, "deploy", testSlot)

	s.edge(functionPipeline, "authenticate", functionID)
	s.edge(functionID, "deploy", functionApp)

	s.fanIn("", cosmos, prodSlot, stagingSlot, testSlot)
	s.fanIn("", storage, prodSlot, stagingSlot, testSlot)
	s.edge(functionApp, "", cosmos)
	s.edge(functionApp, "", storage)
	s.edge(storage, "", cdn)

	return b.Err()
}
