package catalog

// Built-in categories.
const (
	Users Category = "client:users"

	AppService        Category = "compute:app-service"
	FunctionApp       Category = "compute:function-app"
	ContainerApp      Category = "compute:container-app"
	ContainerRegistry Category = "compute:container-registry"
	VirtualMachine    Category = "compute:virtual-machine"

	StorageAccount Category = "storage:storage-account"
	BlobStorage    Category = "storage:blob"

	CosmosDB    Category = "database:cosmos-db"
	SQLDatabase Category = "database:sql"

	FrontDoor    Category = "network:front-door"
	CDNProfile   Category = "network:cdn-profile"
	LoadBalancer Category = "network:load-balancer"

	ManagedIdentity Category = "identity:managed-identity"
	KeyVault        Category = "security:key-vault"

	ServiceBus  Category = "messaging:service-bus"
	AppInsights Category = "monitoring:app-insights"

	DeploymentCenter Category = "devops:deployment-center"
	Repository       Category = "vcs:repository"
	Pipeline         Category = "ci:pipeline"
	Docker           Category = "container:docker"
	CSharp           Category = "language:csharp"

	Generic Category = "generic:node"
)

const (
	azureBlue    = "#0078d4"
	azureFill    = "#e5f1fb"
	githubGray   = "#24292f"
	githubFill   = "#f6f8fa"
	dockerBlue   = "#1d63ed"
	csharpPurple = "#68217a"
)

var builtinIcons = []Icon{
	{Category: Users, Provider: ProviderOnPrem, Caption: "Users", Shape: "circle", Fill: "#fff4e5", Border: "#b36b00"},

	{Category: AppService, Provider: ProviderAzure, Caption: "App Service", Shape: "box", Fill: azureFill, Border: azureBlue},
	{Category: FunctionApp, Provider: ProviderAzure, Caption: "Function App", Shape: "hexagon", Fill: "#fff8d6", Border: "#c19c00"},
	{Category: ContainerApp, Provider: ProviderAzure, Caption: "Container App", Shape: "box3d", Fill: azureFill, Border: azureBlue},
	{Category: ContainerRegistry, Provider: ProviderAzure, Caption: "Container Registry", Shape: "folder", Fill: azureFill, Border: azureBlue},
	{Category: VirtualMachine, Provider: ProviderAzure, Caption: "Virtual Machine", Shape: "box", Fill: azureFill, Border: azureBlue},

	{Category: StorageAccount, Provider: ProviderAzure, Caption: "Storage Account", Shape: "cylinder", Fill: "#e8f5e9", Border: "#2e7d32"},
	{Category: BlobStorage, Provider: ProviderAzure, Caption: "Blob Storage", Shape: "cylinder", Fill: "#e8f5e9", Border: "#2e7d32"},

	{Category: CosmosDB, Provider: ProviderAzure, Caption: "Cosmos DB", Shape: "cylinder", Fill: "#ede7f6", Border: "#4527a0"},
	{Category: SQLDatabase, Provider: ProviderAzure, Caption: "SQL Database", Shape: "cylinder", Fill: "#ede7f6", Border: "#4527a0"},

	{Category: FrontDoor, Provider: ProviderAzure, Caption: "Front Door", Shape: "invhouse", Fill: azureFill, Border: azureBlue},
	{Category: CDNProfile, Provider: ProviderAzure, Caption: "CDN Profile", Shape: "invhouse", Fill: azureFill, Border: azureBlue},
	{Category: LoadBalancer, Provider: ProviderAzure, Caption: "Load Balancer", Shape: "diamond", Fill: azureFill, Border: azureBlue},

	{Category: ManagedIdentity, Provider: ProviderAzure, Caption: "Managed Identity", Shape: "octagon", Fill: "#fffde7", Border: "#f9a825"},
	{Category: KeyVault, Provider: ProviderAzure, Caption: "Key Vault", Shape: "octagon", Fill: "#fffde7", Border: "#f9a825"},

	{Category: ServiceBus, Provider: ProviderAzure, Caption: "Service Bus", Shape: "cds", Fill: azureFill, Border: azureBlue},
	{Category: AppInsights, Provider: ProviderAzure, Caption: "Application Insights", Shape: "ellipse", Fill: "#f3e5f5", Border: "#6a1b9a"},

	{Category: DeploymentCenter, Provider: ProviderAzure, Caption: "Deployment Center", Shape: "component", Fill: azureFill, Border: azureBlue},
	{Category: Repository, Provider: ProviderOnPrem, Caption: "Git Repository", Shape: "tab", Fill: githubFill, Border: githubGray},
	{Category: Pipeline, Provider: ProviderOnPrem, Caption: "CI Pipeline", Shape: "cds", Fill: githubFill, Border: githubGray},
	{Category: Docker, Provider: ProviderOnPrem, Caption: "Docker", Shape: "box3d", Fill: "#e3ecfd", Border: dockerBlue},
	{Category: CSharp, Provider: ProviderProgramming, Caption: "C#", Shape: "note", Fill: "#f3e5f5", Border: csharpPurple},

	{Category: Generic, Provider: ProviderGeneric, Caption: "Node", Shape: "box", Fill: "white", Border: "black"},
}

var defaultTable = mustTable(builtinIcons)

func mustTable(icons []Icon) *Table {
	t, err := NewTable(icons...)
	if err != nil {
		panic(err)
	}
	return t
}
